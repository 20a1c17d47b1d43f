// Package apikey 提供供应商密钥管理服务
package apikey

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
)

var tracer = otel.Tracer("apikey")

// ClientInvalidator 密钥变更后丢弃缓存的供应商客户端
type ClientInvalidator interface {
	Invalidate(provider entity.Provider)
}

// Service 供应商密钥管理服务
type Service struct {
	keyRepo     repository.APIKeyRepository
	invalidator ClientInvalidator
}

// NewService 创建密钥管理服务
func NewService(keyRepo repository.APIKeyRepository, invalidator ClientInvalidator) *Service {
	return &Service{
		keyRepo:     keyRepo,
		invalidator: invalidator,
	}
}

// Upsert 写入密钥并使对应供应商的客户端缓存失效
func (s *Service) Upsert(ctx context.Context, provider entity.Provider, key string) error {
	ctx, span := tracer.Start(ctx, "apikey.Service.Upsert")
	defer span.End()

	if !provider.Valid() {
		return apperrors.ErrInvalidParam.WithDetail("unknown provider: " + string(provider))
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return apperrors.ErrInvalidParam.WithDetail("key is empty")
	}

	if err := s.keyRepo.Upsert(ctx, &entity.APIKey{Provider: provider, Key: key}); err != nil {
		return err
	}
	s.invalidator.Invalidate(provider)

	logger.Info(ctx, "api key updated", "provider", provider)
	return nil
}

// List 列出全部密钥，密钥值已脱敏
func (s *Service) List(ctx context.Context) ([]*entity.APIKey, error) {
	ctx, span := tracer.Start(ctx, "apikey.Service.List")
	defer span.End()

	return s.keyRepo.List(ctx)
}

// Delete 删除密钥并使客户端缓存失效
func (s *Service) Delete(ctx context.Context, provider entity.Provider) error {
	ctx, span := tracer.Start(ctx, "apikey.Service.Delete")
	defer span.End()

	if !provider.Valid() {
		return apperrors.ErrInvalidParam.WithDetail("unknown provider: " + string(provider))
	}
	if err := s.keyRepo.Delete(ctx, provider); err != nil {
		return err
	}
	s.invalidator.Invalidate(provider)

	logger.Info(ctx, "api key deleted", "provider", provider)
	return nil
}
