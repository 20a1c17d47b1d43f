package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	apperrors "llm-credits-api/pkg/errors"
)

func TestOpenAIClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello there"}},
			},
			"usage": map[string]any{
				"prompt_tokens":     100,
				"completion_tokens": 50,
				"total_tokens":      150,
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", srv.Client())
	result, err := client.Generate(context.Background(), &GenerationRequest{Model: "gpt-4", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello there", result.Text)
	assert.Equal(t, 100, result.InputTokens)
	assert.Equal(t, 50, result.OutputTokens)
	assert.True(t, result.UsageReported)
}

func TestOpenAIClient_GenerateNoUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", srv.Client())
	result, err := client.Generate(context.Background(), &GenerationRequest{Model: "gpt-4", Prompt: "hi"})
	require.NoError(t, err)
	assert.False(t, result.UsageReported)
}

func TestOpenAIClient_GenerateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", srv.Client())
	_, err := client.Generate(context.Background(), &GenerationRequest{Model: "gpt-4", Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropicClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		json.NewEncoder(w).Encode(map[string]any{
			"id": "msg-1",
			"content": []map[string]any{
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"},
			},
			"usage": map[string]any{
				"input_tokens":  40,
				"output_tokens": 12,
			},
		})
	}))
	defer srv.Close()

	client := NewAnthropicClient(srv.URL, "sk-ant", srv.Client())
	result, err := client.Generate(context.Background(), &GenerationRequest{Model: "claude-2", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "part one part two", result.Text)
	assert.Equal(t, 40, result.InputTokens)
	assert.Equal(t, 12, result.OutputTokens)
	assert.True(t, result.UsageReported)
}

func TestPalmClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "gemini says hi"}}}},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     7,
				"candidatesTokenCount": 4,
				"totalTokenCount":      11,
			},
		})
	}))
	defer srv.Close()

	client := NewPalmClient(srv.URL, "g-key", srv.Client())
	result, err := client.Generate(context.Background(), &GenerationRequest{Model: "gemini-pro", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "gemini says hi", result.Text)
	assert.Equal(t, 7, result.InputTokens)
	assert.Equal(t, 4, result.OutputTokens)
}

func TestPalmClient_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "models/gemini-pro", "displayName": "Gemini Pro", "inputTokenLimit": 30720, "outputTokenLimit": 2048},
			},
		})
	}))
	defer srv.Close()

	client := NewPalmClient(srv.URL, "g-key", srv.Client())
	infos, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "gemini-pro", infos[0].ProviderID)
	assert.Equal(t, "Gemini Pro", infos[0].DisplayName)
	assert.Equal(t, 30720, infos[0].ContextWindow)
}

// fakeKeyRepo 内存密钥仓储
type fakeKeyRepo struct {
	keys map[entity.Provider]string
}

func (f *fakeKeyRepo) Upsert(ctx context.Context, key *entity.APIKey) error {
	f.keys[key.Provider] = key.Key
	return nil
}

func (f *fakeKeyRepo) GetByProvider(ctx context.Context, provider entity.Provider) (*entity.APIKey, error) {
	k, ok := f.keys[provider]
	if !ok {
		return nil, nil
	}
	return &entity.APIKey{Provider: provider, Key: k}, nil
}

func (f *fakeKeyRepo) List(ctx context.Context) ([]*entity.APIKey, error) {
	var out []*entity.APIKey
	for p, k := range f.keys {
		out = append(out, &entity.APIKey{Provider: p, Key: k})
	}
	return out, nil
}

func (f *fakeKeyRepo) Delete(ctx context.Context, provider entity.Provider) error {
	delete(f.keys, provider)
	return nil
}

func testProvidersConfig() *config.ProvidersConfig {
	return &config.ProvidersConfig{
		OpenAI:    config.ProviderEndpointConfig{Timeout: 5 * time.Second},
		Anthropic: config.ProviderEndpointConfig{Timeout: 5 * time.Second},
		Palm:      config.ProviderEndpointConfig{Timeout: 5 * time.Second},
	}
}

func TestFactory_ClientFor(t *testing.T) {
	repo := &fakeKeyRepo{keys: map[entity.Provider]string{
		entity.ProviderOpenAI: "sk-test",
	}}
	factory := NewFactory(testProvidersConfig(), repo)

	t.Run("有密钥时返回客户端并缓存", func(t *testing.T) {
		c1, err := factory.ClientFor(context.Background(), entity.ProviderOpenAI)
		require.NoError(t, err)
		require.NotNil(t, c1)

		c2, err := factory.ClientFor(context.Background(), entity.ProviderOpenAI)
		require.NoError(t, err)
		assert.Same(t, c1.(*OpenAIClient), c2.(*OpenAIClient))
	})

	t.Run("无密钥时返回业务错误", func(t *testing.T) {
		_, err := factory.ClientFor(context.Background(), entity.ProviderAnthropic)
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeNoAPIKeyConfigured, appErr.Code)
	})

	t.Run("Invalidate 后重建客户端", func(t *testing.T) {
		c1, err := factory.ClientFor(context.Background(), entity.ProviderOpenAI)
		require.NoError(t, err)

		factory.Invalidate(entity.ProviderOpenAI)
		repo.keys[entity.ProviderOpenAI] = "sk-rotated"

		c2, err := factory.ClientFor(context.Background(), entity.ProviderOpenAI)
		require.NoError(t, err)
		assert.NotSame(t, c1.(*OpenAIClient), c2.(*OpenAIClient))
	})
}
