// Package router 提供 HTTP 路由配置
package router

import (
	"llm-credits-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 公开模型目录
	v1.GET("/models", h.Model.ListPublic)

	// 计费查询
	v1.POST("/query", h.Query.Execute)
	v1.GET("/queries", h.Query.ListMine)

	// 当前用户
	v1.GET("/users/me", h.User.Me)

	// 管理端
	admin := v1.Group("/admin", middleware.RequireAdmin())
	{
		// 用户管理
		admin.GET("/users", h.User.List)
		admin.GET("/users/:id", h.User.Get)
		admin.POST("/users/:id/credits", h.User.AdjustCredits)
		admin.PUT("/users/:id/admin", h.User.SetAdmin)
		admin.DELETE("/users/:id", h.User.Delete)

		// 模型目录管理
		admin.GET("/models", h.Model.List)
		admin.POST("/models", h.Model.Create)
		admin.POST("/models/sync", h.Model.Sync)
		admin.GET("/models/:id", h.Model.Get)
		admin.PUT("/models/:id", h.Model.Update)
		admin.DELETE("/models/:id", h.Model.Delete)

		// 供应商密钥
		admin.GET("/api-keys", h.APIKey.List)
		admin.PUT("/api-keys", h.APIKey.Upsert)
		admin.DELETE("/api-keys/:provider", h.APIKey.Delete)

		// 支付方式与充值
		admin.GET("/payment-methods", h.Payment.ListMethods)
		admin.POST("/payment-methods", h.Payment.CreateMethod)
		admin.PUT("/payment-methods/:id", h.Payment.UpdateMethod)
		admin.DELETE("/payment-methods/:id", h.Payment.DeleteMethod)
		admin.POST("/top-up", h.Payment.TopUp)
		admin.GET("/transactions", h.Payment.ListTransactions)

		// 查询流水
		admin.GET("/queries", h.Query.List)
	}
}
