package repository

import (
	"context"

	"llm-credits-api/internal/domain/entity"
)

// APIKeyRepository 供应商密钥仓储接口，每个供应商至多一条记录
type APIKeyRepository interface {
	// Upsert 按 provider 写入，已存在则替换密钥
	Upsert(ctx context.Context, key *entity.APIKey) error
	GetByProvider(ctx context.Context, provider entity.Provider) (*entity.APIKey, error)
	List(ctx context.Context) ([]*entity.APIKey, error)
	Delete(ctx context.Context, provider entity.Provider) error
}
