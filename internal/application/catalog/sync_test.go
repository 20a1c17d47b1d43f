package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/infrastructure/llm"
)

// memKeyRepo 内存密钥仓储
type memKeyRepo struct {
	keys map[entity.Provider]*entity.APIKey
}

func newMemKeyRepo(providers ...entity.Provider) *memKeyRepo {
	r := &memKeyRepo{keys: make(map[entity.Provider]*entity.APIKey)}
	for _, p := range providers {
		r.keys[p] = &entity.APIKey{Provider: p, Key: "sk-test"}
	}
	return r
}

func (r *memKeyRepo) Upsert(_ context.Context, key *entity.APIKey) error {
	r.keys[key.Provider] = key
	return nil
}

func (r *memKeyRepo) GetByProvider(_ context.Context, provider entity.Provider) (*entity.APIKey, error) {
	return r.keys[provider], nil
}

func (r *memKeyRepo) List(_ context.Context) ([]*entity.APIKey, error) {
	out := make([]*entity.APIKey, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, k)
	}
	return out, nil
}

func (r *memKeyRepo) Delete(_ context.Context, provider entity.Provider) error {
	delete(r.keys, provider)
	return nil
}

// listClient 只实现 ListModels 的桩客户端
type listClient struct {
	infos []llm.ModelInfo
	err   error
}

func (c *listClient) Generate(context.Context, *llm.GenerationRequest) (*llm.GenerationResult, error) {
	return nil, errors.New("not implemented")
}

func (c *listClient) ListModels(context.Context) ([]llm.ModelInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.infos, nil
}

// mapResolver 按供应商返回固定客户端
type mapResolver struct {
	clients map[entity.Provider]llm.Client
}

func (r *mapResolver) ClientFor(_ context.Context, provider entity.Provider) (llm.Client, error) {
	c, ok := r.clients[provider]
	if !ok {
		return nil, errors.New("no api key configured")
	}
	return c, nil
}

func TestSyncer_OnlyConfiguredProviders(t *testing.T) {
	modelRepo := newMemModelRepo()
	keyRepo := newMemKeyRepo(entity.ProviderOpenAI)
	resolver := &mapResolver{clients: map[entity.Provider]llm.Client{
		entity.ProviderOpenAI: &listClient{infos: []llm.ModelInfo{
			{ProviderID: "gpt-4", DisplayName: "gpt-4"},
			{ProviderID: "gpt-3.5-turbo", DisplayName: "gpt-3.5-turbo"},
		}},
		// anthropic 客户端存在但没有配置密钥，不应被触达
		entity.ProviderAnthropic: &listClient{infos: []llm.ModelInfo{
			{ProviderID: "claude-2", DisplayName: "claude-2"},
		}},
	}}

	syncer := NewSyncer(modelRepo, keyRepo, resolver, nil)

	report, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, entity.ProviderOpenAI, report.Results[0].Provider)
	assert.Equal(t, 2, report.Results[0].Synced)
	assert.Empty(t, report.Results[0].Error)

	got, err := modelRepo.GetByProviderID(context.Background(), "claude-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSyncer_NewModelsStartDisabled(t *testing.T) {
	modelRepo := newMemModelRepo()
	keyRepo := newMemKeyRepo(entity.ProviderOpenAI)
	resolver := &mapResolver{clients: map[entity.Provider]llm.Client{
		entity.ProviderOpenAI: &listClient{infos: []llm.ModelInfo{
			{ProviderID: "gpt-4o-mini", DisplayName: "gpt-4o-mini"},
		}},
	}}

	syncer := NewSyncer(modelRepo, keyRepo, resolver, nil)

	_, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	m, err := modelRepo.GetByProviderID(context.Background(), "gpt-4o-mini")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.Enabled)
	assert.False(t, m.IsPublic)
	// 新模型套用默认定价表
	assert.Equal(t, int64(15), m.InputCost)
	assert.Equal(t, int64(60), m.OutputCost)
}

func TestSyncer_PreservesLocalPricing(t *testing.T) {
	modelRepo := newMemModelRepo()
	existing := seedModel(t, modelRepo, "gpt-4", true, true)
	existing.InputCost = 999
	require.NoError(t, modelRepo.Update(context.Background(), existing))

	keyRepo := newMemKeyRepo(entity.ProviderOpenAI)
	resolver := &mapResolver{clients: map[entity.Provider]llm.Client{
		entity.ProviderOpenAI: &listClient{infos: []llm.ModelInfo{
			{ProviderID: "gpt-4", DisplayName: "GPT-4 Turbo", ContextWindow: 128000},
		}},
	}}

	syncer := NewSyncer(modelRepo, keyRepo, resolver, nil)

	_, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	m, err := modelRepo.GetByProviderID(context.Background(), "gpt-4")
	require.NoError(t, err)
	require.NotNil(t, m)
	// 元数据刷新，本地定价与开关保留
	assert.Equal(t, "GPT-4 Turbo", m.DisplayName)
	assert.Equal(t, 128000, m.ContextWindow)
	assert.Equal(t, int64(999), m.InputCost)
	assert.True(t, m.Enabled)
	assert.True(t, m.IsPublic)
}

func TestSyncer_ProviderFailureIsolated(t *testing.T) {
	modelRepo := newMemModelRepo()
	keyRepo := newMemKeyRepo(entity.ProviderOpenAI, entity.ProviderAnthropic)
	resolver := &mapResolver{clients: map[entity.Provider]llm.Client{
		entity.ProviderOpenAI: &listClient{infos: []llm.ModelInfo{
			{ProviderID: "gpt-4", DisplayName: "gpt-4"},
		}},
		entity.ProviderAnthropic: &listClient{err: errors.New("upstream 500")},
	}}

	syncer := NewSyncer(modelRepo, keyRepo, resolver, nil)

	report, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	byProvider := make(map[entity.Provider]ProviderSyncResult)
	for _, r := range report.Results {
		byProvider[r.Provider] = r
	}
	assert.Equal(t, 1, byProvider[entity.ProviderOpenAI].Synced)
	assert.Empty(t, byProvider[entity.ProviderOpenAI].Error)
	assert.Contains(t, byProvider[entity.ProviderAnthropic].Error, "upstream 500")

	m, err := modelRepo.GetByProviderID(context.Background(), "gpt-4")
	require.NoError(t, err)
	assert.NotNil(t, m)
}
