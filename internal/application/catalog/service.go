// Package catalog 提供模型目录服务
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/infrastructure/persistence/redis"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
)

var tracer = otel.Tracer("catalog")

// 公开目录缓存 TTL
const catalogCacheTTL = 5 * time.Minute

// Service 模型目录服务，管理端增删改与公开目录读取
type Service struct {
	modelRepo repository.ModelRepository
	cache     *redis.Cache
}

// NewService 创建目录服务
func NewService(modelRepo repository.ModelRepository, cache *redis.Cache) *Service {
	return &Service{
		modelRepo: modelRepo,
		cache:     cache,
	}
}

// ListPublic 公开目录，经 Redis 缓存并用 singleflight 防击穿
func (s *Service) ListPublic(ctx context.Context) ([]*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "catalog.Service.ListPublic")
	defer span.End()

	if s.cache == nil {
		return s.modelRepo.ListPublic(ctx)
	}

	data, err := s.cache.GetOrLoadSafe(ctx, redis.CatalogCacheKey, catalogCacheTTL, func() (interface{}, error) {
		return s.modelRepo.ListPublic(ctx)
	})
	if err != nil {
		// 缓存链路失败时直接回源
		logger.Warn(ctx, "catalog cache unavailable, falling back to database", "error", err)
		return s.modelRepo.ListPublic(ctx)
	}

	var models []*entity.Model
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// List 管理端分页列表
func (s *Service) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Model], error) {
	ctx, span := tracer.Start(ctx, "catalog.Service.List")
	defer span.End()

	return s.modelRepo.List(ctx, pagination)
}

// ListEnabled 全部可服务模型，含启用但未公开项
func (s *Service) ListEnabled(ctx context.Context) ([]*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "catalog.Service.ListEnabled")
	defer span.End()

	return s.modelRepo.ListEnabled(ctx)
}

// Get 按供应商侧标识获取模型
func (s *Service) Get(ctx context.Context, providerID string) (*entity.Model, error) {
	ctx, span := tracer.Start(ctx, "catalog.Service.Get")
	defer span.End()

	model, err := s.modelRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, apperrors.ErrModelNotFound.WithDetail("model: " + providerID)
	}
	return model, nil
}

// Create 管理端创建模型
func (s *Service) Create(ctx context.Context, model *entity.Model) error {
	ctx, span := tracer.Start(ctx, "catalog.Service.Create")
	defer span.End()

	if !model.Provider.Valid() {
		return apperrors.ErrInvalidParam.WithDetail("unknown provider: " + string(model.Provider))
	}

	existing, err := s.modelRepo.GetByProviderID(ctx, model.ProviderID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.ErrConflict.WithDetail("model already exists: " + model.ProviderID)
	}

	if err := s.modelRepo.Create(ctx, model); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Update 管理端更新模型，定价与开关的变更只影响后续查询
func (s *Service) Update(ctx context.Context, model *entity.Model) error {
	ctx, span := tracer.Start(ctx, "catalog.Service.Update")
	defer span.End()

	if err := s.modelRepo.Update(ctx, model); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete 管理端删除模型，历史查询记录不受影响
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "catalog.Service.Delete")
	defer span.End()

	if err := s.modelRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate 目录变更后使缓存失效，失败仅记录日志
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		logger.Warn(ctx, "failed to invalidate catalog cache", "error", err)
	}
}
