package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient Anthropic Messages API 客户端
type AnthropicClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAnthropicClient 创建 Anthropic 客户端
func NewAnthropicClient(baseURL, apiKey string, httpClient *http.Client) *AnthropicClient {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate 发起一次非流式文本生成
func (c *AnthropicClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "llm.AnthropicClient.Generate")
	span.SetAttributes(attribute.String("llm.model", req.Model))
	defer span.End()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		// Messages API 要求显式 max_tokens
		maxTokens = 1024
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     req.Model,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("anthropic: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp anthropicResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}

	return &GenerationResult{
		Text:          sb.String(),
		InputTokens:   resp.Usage.InputTokens,
		OutputTokens:  resp.Usage.OutputTokens,
		UsageReported: resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0,
	}, nil
}

type anthropicModelsResponse struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
}

// ListModels 列出可用模型
func (c *AnthropicClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, span := tracer.Start(ctx, "llm.AnthropicClient.ListModels")
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("anthropic: create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("anthropic: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp anthropicModelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}

	infos := make([]ModelInfo, 0, len(resp.Data))
	for _, m := range resp.Data {
		name := m.DisplayName
		if name == "" {
			name = m.ID
		}
		infos = append(infos, ModelInfo{
			ProviderID:  m.ID,
			DisplayName: name,
		})
	}
	return infos, nil
}
