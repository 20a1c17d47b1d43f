// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
)

// QueryRepository 查询流水仓储实现
type QueryRepository struct {
	client *Client
}

// NewQueryRepository 创建查询流水仓储
func NewQueryRepository(client *Client) *QueryRepository {
	return &QueryRepository{client: client}
}

// Create 写入查询流水
func (r *QueryRepository) Create(ctx context.Context, query *entity.Query) error {
	ctx, span := tracer.Start(ctx, "postgres.QueryRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(query).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create query record: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取查询流水
func (r *QueryRepository) GetByID(ctx context.Context, id string) (*entity.Query, error) {
	ctx, span := tracer.Start(ctx, "postgres.QueryRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var query entity.Query
	if err := db.First(&query, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get query record: %w", err)
	}
	return &query, nil
}

// ListByUser 按用户倒序分页列出历史查询
func (r *QueryRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	ctx, span := tracer.Start(ctx, "postgres.QueryRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Query{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}

	var queries []*entity.Query
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&queries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	return repository.NewPagedResult(queries, total, pagination), nil
}

// List 管理端全量倒序分页
func (r *QueryRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	ctx, span := tracer.Start(ctx, "postgres.QueryRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Query{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}

	var queries []*entity.Query
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&queries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}

	return repository.NewPagedResult(queries, total, pagination), nil
}
