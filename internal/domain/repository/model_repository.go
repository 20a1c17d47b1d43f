package repository

import (
	"context"

	"llm-credits-api/internal/domain/entity"
)

// ModelRepository 模型仓储接口
type ModelRepository interface {
	Create(ctx context.Context, model *entity.Model) error
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	// GetByProviderID 按供应商侧模型标识查找
	GetByProviderID(ctx context.Context, providerID string) (*entity.Model, error)
	Update(ctx context.Context, model *entity.Model) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Model], error)
	// ListEnabled 列出全部可服务模型，含未公开项，按供应商与展示名排序
	ListEnabled(ctx context.Context) ([]*entity.Model, error)
	// ListPublic 列出启用且公开的模型，供未认证目录接口使用
	ListPublic(ctx context.Context) ([]*entity.Model, error)
	// Upsert 按 provider_id 幂等写入，存在则更新元数据并保留本地定价与开关
	Upsert(ctx context.Context, model *entity.Model) error
}
