package repository

import (
	"context"

	"llm-credits-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
// 查询方法未命中时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.User], error)

	// DebitCredits 原子扣减额度，余额不足时返回 ErrInsufficientCredits，
	// 成功时返回扣减后的余额
	DebitCredits(ctx context.Context, userID string, amount int64) (int64, error)
	// CreditCredits 原子增加额度，返回增加后的余额
	CreditCredits(ctx context.Context, userID string, amount int64) (int64, error)
}
