// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"llm-credits-api/pkg/logger"
	"llm-credits-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径
	SkipPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// Auth 认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		// 路径前缀匹配（支持 /health, /ready, /live, /metrics）
		for path := range skipMap {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			msg := "invalid token"
			if err == utils.ErrExpiredToken {
				msg = "token expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		// 刷新 Token 不可用于访问接口
		if claims.Type != "access" {
			abortUnauthorized(c, "invalid token type")
			return
		}

		// 注入用户信息到 Context
		c.Set("user_id", claims.UserID)
		c.Set("is_admin", claims.IsAdmin)

		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     401,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}

// GetUserID 从 Gin Context 取当前用户 ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// IsAdmin 从 Gin Context 取管理员标记
func IsAdmin(c *gin.Context) bool {
	return c.GetBool("is_admin")
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}
