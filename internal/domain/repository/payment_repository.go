package repository

import (
	"context"

	"llm-credits-api/internal/domain/entity"
)

// PaymentMethodRepository 支付方式仓储接口
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entity.PaymentMethod) error
	GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error)
	Update(ctx context.Context, method *entity.PaymentMethod) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.PaymentMethod, error)
}

// TransactionRepository 充值流水仓储接口
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Transaction], error)
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Transaction], error)
}
