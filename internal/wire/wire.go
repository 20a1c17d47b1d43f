//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"llm-credits-api/internal/application/apikey"
	"llm-credits-api/internal/application/catalog"
	"llm-credits-api/internal/application/credits"
	"llm-credits-api/internal/application/payment"
	"llm-credits-api/internal/application/query"
	"llm-credits-api/internal/application/user"
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/domain/service"
	"llm-credits-api/internal/infrastructure/llm"
	"llm-credits-api/internal/infrastructure/persistence/postgres"
	"llm-credits-api/internal/infrastructure/persistence/redis"
	"llm-credits-api/internal/interfaces/http/handler"
	"llm-credits-api/internal/interfaces/http/router"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewModelRepository,
	postgres.NewAPIKeyRepository,
	postgres.NewQueryRepository,
	postgres.NewPaymentMethodRepository,
	postgres.NewTransactionRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ModelRepository), new(*postgres.ModelRepository)),
	wire.Bind(new(repository.APIKeyRepository), new(*postgres.APIKeyRepository)),
	wire.Bind(new(repository.QueryRepository), new(*postgres.QueryRepository)),
	wire.Bind(new(repository.PaymentMethodRepository), new(*postgres.PaymentMethodRepository)),
	wire.Bind(new(repository.TransactionRepository), new(*postgres.TransactionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
)

// LLMSet LLM 客户端工厂提供者集合
var LLMSet = wire.NewSet(
	ProvideProvidersConfig,
	llm.NewFactory,
	wire.Bind(new(query.ClientResolver), new(*llm.Factory)),
	wire.Bind(new(apikey.ClientInvalidator), new(*llm.Factory)),
)

// ApplicationSet 应用层服务提供者集合
var ApplicationSet = wire.NewSet(
	ProvideBillingConfig,
	ProvideJWTConfig,
	ProvideJWTManager,
	service.NewCostCalculator,
	credits.NewLedger,
	query.NewExecutor,
	catalog.NewService,
	catalog.NewSyncer,
	user.NewService,
	apikey.NewService,
	payment.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewModelHandler,
	handler.NewQueryHandler,
	handler.NewAPIKeyHandler,
	handler.NewPaymentHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
