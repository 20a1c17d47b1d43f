// Package router 提供 HTTP 路由配置
package router

import (
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/infrastructure/persistence/redis"
	"llm-credits-api/internal/interfaces/http/handler"
	"llm-credits-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Model   *handler.ModelHandler
	Query   *handler.QueryHandler
	APIKey  *handler.APIKeyHandler
	Payment *handler.PaymentHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	redis    *redis.Client
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, redisClient *redis.Client) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		redis:    redisClient,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	// 认证中间件，公开端点通过前缀跳过
	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: authSkipPaths(),
		Enabled:   true,
	}))

	// 限流中间件，已认证请求按用户限流，匿名请求按来源 IP
	if r.cfg.Security.RateLimit.Enabled && r.redis != nil {
		r.engine.Use(middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
			Burst:             r.cfg.Security.RateLimit.Burst,
		}, r.redis.Redis()))
	}

	// 审计日志
	r.engine.Use(middleware.Audit())
}

// authSkipPaths 无需认证的路径前缀
func authSkipPaths() []string {
	paths := make([]string, 0, len(middleware.DefaultSkipPaths)+2)
	paths = append(paths, middleware.DefaultSkipPaths...)
	paths = append(paths,
		"/api/v1/auth",
		"/api/v1/models",
	)
	return paths
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/api/v1")
	RegisterV1Routes(v1, r.handlers)
}
