package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"llm-credits-api/internal/application/query"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/pkg/logger"
	"llm-credits-api/pkg/metrics"
)

// ProviderSyncResult 单个供应商的同步结果
type ProviderSyncResult struct {
	Provider entity.Provider `json:"provider"`
	Synced   int             `json:"synced"`
	Error    string          `json:"error,omitempty"`
}

// SyncReport 一次目录同步的汇总
type SyncReport struct {
	Results []ProviderSyncResult `json:"results"`
}

// Syncer 从各供应商拉取模型列表并写入本地目录
//
// 只同步已配置密钥的供应商，单个供应商失败不影响其余供应商。
// 已存在的模型仅刷新元数据，本地定价与启用开关不被覆盖。
type Syncer struct {
	modelRepo repository.ModelRepository
	keyRepo   repository.APIKeyRepository
	resolver  query.ClientResolver
	catalog   *Service
}

// NewSyncer 创建目录同步器
func NewSyncer(modelRepo repository.ModelRepository, keyRepo repository.APIKeyRepository, resolver query.ClientResolver, catalog *Service) *Syncer {
	return &Syncer{
		modelRepo: modelRepo,
		keyRepo:   keyRepo,
		resolver:  resolver,
		catalog:   catalog,
	}
}

// Sync 并发同步所有已配置密钥的供应商
func (s *Syncer) Sync(ctx context.Context) (*SyncReport, error) {
	ctx, span := tracer.Start(ctx, "catalog.Syncer.Sync")
	defer span.End()

	keys, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		provider := key.Provider
		g.Go(func() error {
			result := s.syncProvider(gctx, provider)
			mu.Lock()
			report.Results = append(report.Results, result)
			mu.Unlock()
			// 单供应商失败不终止整体同步
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.catalog != nil {
		s.catalog.invalidate(ctx)
	}
	return report, nil
}

// syncProvider 同步单个供应商，新模型套用默认定价表且默认停用
func (s *Syncer) syncProvider(ctx context.Context, provider entity.Provider) ProviderSyncResult {
	result := ProviderSyncResult{Provider: provider}

	client, err := s.resolver.ClientFor(ctx, provider)
	if err != nil {
		result.Error = err.Error()
		metrics.ModelSyncTotal.WithLabelValues(string(provider), "error").Inc()
		return result
	}

	infos, err := client.ListModels(ctx)
	if err != nil {
		logger.Error(ctx, "model sync failed", err, "provider", provider)
		result.Error = err.Error()
		metrics.ModelSyncTotal.WithLabelValues(string(provider), "error").Inc()
		return result
	}

	for _, info := range infos {
		input, output := priceFor(provider, info.ProviderID)
		model := &entity.Model{
			ProviderID:    info.ProviderID,
			DisplayName:   info.DisplayName,
			Provider:      provider,
			InputCost:     input,
			OutputCost:    output,
			// 新同步的模型需管理员显式启用后才可计费
			Enabled:       false,
			IsPublic:      false,
			ContextWindow: info.ContextWindow,
			MaxTokens:     info.MaxTokens,
		}
		if err := s.modelRepo.Upsert(ctx, model); err != nil {
			logger.Error(ctx, "model upsert failed", err,
				"provider", provider,
				"model", info.ProviderID,
			)
			result.Error = err.Error()
			metrics.ModelSyncTotal.WithLabelValues(string(provider), "error").Inc()
			return result
		}
		result.Synced++
	}

	metrics.ModelSyncTotal.WithLabelValues(string(provider), "success").Inc()
	metrics.ModelSyncUpserted.WithLabelValues(string(provider)).Add(float64(result.Synced))
	logger.Info(ctx, "model sync completed", "provider", provider, "synced", result.Synced)
	return result
}
