// Package wire 提供依赖注入配置
package wire

import (
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/infrastructure/persistence/postgres"
	"llm-credits-api/internal/infrastructure/persistence/redis"
	"llm-credits-api/pkg/utils"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient  *postgres.Client
	TxManager *postgres.TxManager
	UserRepo  *postgres.UserRepository
	ModelRepo *postgres.ModelRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideProvidersConfig 提供 LLM 供应商接入配置
func ProvideProvidersConfig(cfg *config.Config) *config.ProvidersConfig {
	return &cfg.Providers
}

// ProvideBillingConfig 提供计费配置
func ProvideBillingConfig(cfg *config.Config) *config.BillingConfig {
	return &cfg.Billing
}

// ProvideJWTConfig 提供 JWT 配置
func ProvideJWTConfig(cfg *config.Config) *config.JWTConfig {
	return &cfg.Security.JWT
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
}
