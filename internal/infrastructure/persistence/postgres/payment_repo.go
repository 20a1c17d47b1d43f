// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
)

// PaymentMethodRepository 支付方式仓储实现
type PaymentMethodRepository struct {
	client *Client
}

// NewPaymentMethodRepository 创建支付方式仓储
func NewPaymentMethodRepository(client *Client) *PaymentMethodRepository {
	return &PaymentMethodRepository{client: client}
}

// Create 创建支付方式
func (r *PaymentMethodRepository) Create(ctx context.Context, method *entity.PaymentMethod) error {
	ctx, span := tracer.Start(ctx, "postgres.PaymentMethodRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(method).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取支付方式
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	ctx, span := tracer.Start(ctx, "postgres.PaymentMethodRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var method entity.PaymentMethod
	if err := db.First(&method, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &method, nil
}

// Update 更新支付方式
func (r *PaymentMethodRepository) Update(ctx context.Context, method *entity.PaymentMethod) error {
	ctx, span := tracer.Start(ctx, "postgres.PaymentMethodRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(method).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return nil
}

// Delete 删除支付方式
func (r *PaymentMethodRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PaymentMethodRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.PaymentMethod{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}

// List 列出全部支付方式
func (r *PaymentMethodRepository) List(ctx context.Context) ([]*entity.PaymentMethod, error) {
	ctx, span := tracer.Start(ctx, "postgres.PaymentMethodRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var methods []*entity.PaymentMethod
	if err := db.Order("name").Find(&methods).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// TransactionRepository 充值流水仓储实现
type TransactionRepository struct {
	client *Client
}

// NewTransactionRepository 创建充值流水仓储
func NewTransactionRepository(client *Client) *TransactionRepository {
	return &TransactionRepository{client: client}
}

// Create 写入充值流水
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	ctx, span := tracer.Start(ctx, "postgres.TransactionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(tx).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取充值流水
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	ctx, span := tracer.Start(ctx, "postgres.TransactionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tx entity.Transaction
	if err := db.First(&tx, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// UpdateStatus 更新充值流水状态
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.TransactionRepository.UpdateStatus")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Transaction{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

// ListByUser 按用户倒序分页列出充值流水
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	ctx, span := tracer.Start(ctx, "postgres.TransactionRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []*entity.Transaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&txs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return repository.NewPagedResult(txs, total, pagination), nil
}

// List 管理端全量倒序分页
func (r *TransactionRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	ctx, span := tracer.Start(ctx, "postgres.TransactionRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Transaction{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []*entity.Transaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&txs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return repository.NewPagedResult(txs, total, pagination), nil
}
