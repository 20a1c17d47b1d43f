// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"llm-credits-api/internal/domain/entity"
)

// APIKeyRepository 供应商密钥仓储实现
type APIKeyRepository struct {
	client *Client
}

// NewAPIKeyRepository 创建供应商密钥仓储
func NewAPIKeyRepository(client *Client) *APIKeyRepository {
	return &APIKeyRepository{client: client}
}

// Upsert 按 provider 写入密钥，已存在则替换
func (r *APIKeyRepository) Upsert(ctx context.Context, key *entity.APIKey) error {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"key", "updated_at"}),
	}).Create(key).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert api key: %w", err)
	}
	return nil
}

// GetByProvider 获取指定供应商的密钥
func (r *APIKeyRepository) GetByProvider(ctx context.Context, provider entity.Provider) (*entity.APIKey, error) {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.GetByProvider")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var key entity.APIKey
	if err := db.First(&key, "provider = ?", provider).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return &key, nil
}

// List 列出全部密钥
func (r *APIKeyRepository) List(ctx context.Context) ([]*entity.APIKey, error) {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var keys []*entity.APIKey
	if err := db.Order("provider").Find(&keys).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// Delete 删除指定供应商的密钥
func (r *APIKeyRepository) Delete(ctx context.Context, provider entity.Provider) error {
	ctx, span := tracer.Start(ctx, "postgres.APIKeyRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.APIKey{}, "provider = ?", provider).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	return nil
}
