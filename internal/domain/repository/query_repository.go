package repository

import (
	"context"

	"llm-credits-api/internal/domain/entity"
)

// QueryRepository 查询流水仓储接口，记录只增不改
type QueryRepository interface {
	Create(ctx context.Context, query *entity.Query) error
	GetByID(ctx context.Context, id string) (*entity.Query, error)
	// ListByUser 按用户倒序分页列出历史查询
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Query], error)
	// List 管理端全量倒序分页
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Query], error)
}
