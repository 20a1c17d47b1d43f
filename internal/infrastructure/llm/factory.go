package llm

import (
	"context"
	"net/http"
	"sync"

	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
)

// Factory 按供应商构造并缓存客户端
// 密钥来自数据库而非环境变量，密钥变更后需调用 Invalidate
type Factory struct {
	cfg     *config.ProvidersConfig
	keyRepo repository.APIKeyRepository

	mu      sync.RWMutex
	clients map[entity.Provider]Client
}

// NewFactory 创建客户端工厂
func NewFactory(cfg *config.ProvidersConfig, keyRepo repository.APIKeyRepository) *Factory {
	return &Factory{
		cfg:     cfg,
		keyRepo: keyRepo,
		clients: make(map[entity.Provider]Client),
	}
}

// ClientFor 返回指定供应商的客户端
// 未配置密钥时返回 ErrNoAPIKeyConfigured
func (f *Factory) ClientFor(ctx context.Context, provider entity.Provider) (Client, error) {
	f.mu.RLock()
	if client, ok := f.clients[provider]; ok {
		f.mu.RUnlock()
		return client, nil
	}
	f.mu.RUnlock()

	key, err := f.keyRepo.GetByProvider(ctx, provider)
	if err != nil {
		return nil, err
	}
	if key == nil || key.Key == "" {
		return nil, apperrors.ErrNoAPIKeyConfigured.WithDetail("provider: " + string(provider))
	}

	client, err := f.build(provider, key.Key)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.clients[provider] = client
	f.mu.Unlock()

	return client, nil
}

// build 按供应商构造客户端，封闭枚举，新供应商需在此显式接入
func (f *Factory) build(provider entity.Provider, apiKey string) (Client, error) {
	switch provider {
	case entity.ProviderOpenAI:
		cfg := f.cfg.OpenAI
		return NewOpenAIClient(cfg.BaseURL, apiKey, &http.Client{Timeout: cfg.Timeout}), nil
	case entity.ProviderAnthropic:
		cfg := f.cfg.Anthropic
		return NewAnthropicClient(cfg.BaseURL, apiKey, &http.Client{Timeout: cfg.Timeout}), nil
	case entity.ProviderPalm:
		cfg := f.cfg.Palm
		return NewPalmClient(cfg.BaseURL, apiKey, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, apperrors.ErrProviderError.WithDetail("unsupported provider: " + string(provider))
	}
}

// Invalidate 丢弃指定供应商的缓存客户端，密钥增删改后调用
func (f *Factory) Invalidate(provider entity.Provider) {
	f.mu.Lock()
	delete(f.clients, provider)
	f.mu.Unlock()
}
