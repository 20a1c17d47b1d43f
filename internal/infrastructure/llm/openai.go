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

// OpenAIClient OpenAI Chat Completions 客户端
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIClient 创建 OpenAI 客户端
func NewOpenAIClient(baseURL, apiKey string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate 发起一次非流式文本生成
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "llm.OpenAIClient.Generate")
	span.SetAttributes(attribute.String("llm.model", req.Model))
	defer span.End()

	body, err := json.Marshal(openAIChatRequest{
		Model:     req.Model,
		Messages:  []openAIMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("openai: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp openAIChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &GenerationResult{
		Text:          text,
		InputTokens:   resp.Usage.PromptTokens,
		OutputTokens:  resp.Usage.CompletionTokens,
		UsageReported: resp.Usage.TotalTokens > 0,
	}, nil
}

type openAIModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels 列出可用模型
func (c *OpenAIClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, span := tracer.Start(ctx, "llm.OpenAIClient.ListModels")
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("openai: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp openAIModelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}

	infos := make([]ModelInfo, 0, len(resp.Data))
	for _, m := range resp.Data {
		infos = append(infos, ModelInfo{
			ProviderID:  m.ID,
			DisplayName: m.ID,
		})
	}
	return infos, nil
}
