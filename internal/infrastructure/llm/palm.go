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

// PalmClient Google Generative Language API 客户端
type PalmClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPalmClient 创建 PaLM/Gemini 客户端
func NewPalmClient(baseURL, apiKey string, httpClient *http.Client) *PalmClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &PalmClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type palmPart struct {
	Text string `json:"text"`
}

type palmContent struct {
	Parts []palmPart `json:"parts"`
	Role  string     `json:"role,omitempty"`
}

type palmGenerateRequest struct {
	Contents         []palmContent `json:"contents"`
	GenerationConfig *struct {
		MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type palmGenerateResponse struct {
	Candidates []struct {
		Content palmContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate 发起一次非流式文本生成
func (c *PalmClient) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "llm.PalmClient.Generate")
	span.SetAttributes(attribute.String("llm.model", req.Model))
	defer span.End()

	payload := palmGenerateRequest{
		Contents: []palmContent{{Parts: []palmPart{{Text: req.Prompt}}, Role: "user"}},
	}
	if req.MaxTokens > 0 {
		payload.GenerationConfig = &struct {
			MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
		}{MaxOutputTokens: req.MaxTokens}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("palm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, req.Model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("palm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("palm: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("palm: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp palmGenerateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("palm: decode response: %w", err)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}

	return &GenerationResult{
		Text:          sb.String(),
		InputTokens:   resp.UsageMetadata.PromptTokenCount,
		OutputTokens:  resp.UsageMetadata.CandidatesTokenCount,
		UsageReported: resp.UsageMetadata.TotalTokenCount > 0,
	}, nil
}

type palmModelsResponse struct {
	Models []struct {
		Name             string `json:"name"` // 形如 models/gemini-pro
		DisplayName      string `json:"displayName"`
		InputTokenLimit  int    `json:"inputTokenLimit"`
		OutputTokenLimit int    `json:"outputTokenLimit"`
	} `json:"models"`
}

// ListModels 列出可用模型
func (c *PalmClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, span := tracer.Start(ctx, "llm.PalmClient.ListModels")
	defer span.End()

	url := fmt.Sprintf("%s/v1beta/models?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("palm: create request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("palm: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		err := fmt.Errorf("palm: status %d: %s", httpResp.StatusCode, string(respBody))
		span.RecordError(err)
		return nil, err
	}

	var resp palmModelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("palm: decode response: %w", err)
	}

	infos := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		id := strings.TrimPrefix(m.Name, "models/")
		name := m.DisplayName
		if name == "" {
			name = id
		}
		infos = append(infos, ModelInfo{
			ProviderID:    id,
			DisplayName:   name,
			ContextWindow: m.InputTokenLimit,
			MaxTokens:     m.OutputTokenLimit,
		})
	}
	return infos, nil
}
