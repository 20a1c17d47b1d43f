// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
)

// ModelRepository 模型仓储实现
type ModelRepository struct {
	client *Client
}

// NewModelRepository 创建模型仓储
func NewModelRepository(client *Client) *ModelRepository {
	return &ModelRepository{client: client}
}

// Create 创建模型
func (r *ModelRepository) Create(ctx context.Context, model *entity.Model) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(model).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create model: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取模型
func (r *ModelRepository) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var model entity.Model
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &model, nil
}

// GetByProviderID 按供应商侧模型标识获取模型
func (r *ModelRepository) GetByProviderID(ctx context.Context, providerID string) (*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.GetByProviderID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var model entity.Model
	if err := db.First(&model, "provider_id = ?", providerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get model by provider id: %w", err)
	}
	return &model, nil
}

// Update 更新模型
func (r *ModelRepository) Update(ctx context.Context, model *entity.Model) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(model).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update model: %w", err)
	}
	return nil
}

// Delete 删除模型
func (r *ModelRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Model{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete model: %w", err)
	}
	return nil
}

// List 获取模型列表
func (r *ModelRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Model], error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Model{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count models: %w", err)
	}

	var models []*entity.Model
	if err := query.Order("provider, display_name").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	return repository.NewPagedResult(models, total, pagination), nil
}

// ListEnabled 列出全部可服务模型，含未公开项
func (r *ModelRepository) ListEnabled(ctx context.Context) ([]*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.ListEnabled")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var models []*entity.Model
	if err := db.Where("enabled = ?", true).
		Order("provider, display_name").
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list enabled models: %w", err)
	}
	return models, nil
}

// ListPublic 列出启用且公开的模型
func (r *ModelRepository) ListPublic(ctx context.Context) ([]*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.ListPublic")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var models []*entity.Model
	if err := db.Where("enabled = ? AND is_public = ?", true, true).
		Order("provider, display_name").
		Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list public models: %w", err)
	}
	return models, nil
}

// Upsert 按 provider_id 幂等写入
// 已存在时仅刷新供应商侧元数据，本地定价与开关保持不变
func (r *ModelRepository) Upsert(ctx context.Context, model *entity.Model) error {
	ctx, span := tracer.Start(ctx, "postgres.ModelRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "provider", "context_window", "max_tokens", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert model: %w", err)
	}
	return nil
}
