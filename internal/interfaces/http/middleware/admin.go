// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin 管理员权限检查中间件
// 管理端接口要求 JWT 中携带 is_admin 标记，否则返回 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			abortForbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

// abortForbidden 终止请求并返回 403
func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     403,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
