// Package llm 提供 LLM 供应商客户端实现
package llm

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("llm")

// GenerationRequest 一次文本生成请求
type GenerationRequest struct {
	Model     string // 供应商侧模型标识
	Prompt    string
	MaxTokens int
}

// GenerationResult 生成结果，含供应商回报的 token 用量
// UsageReported 为 false 时表示供应商未回报用量，调用方需自行估算
type GenerationResult struct {
	Text          string
	InputTokens   int
	OutputTokens  int
	UsageReported bool
}

// ModelInfo 供应商侧的模型元数据，用于目录同步
type ModelInfo struct {
	ProviderID    string
	DisplayName   string
	ContextWindow int
	MaxTokens     int
}

// Client 供应商客户端接口
type Client interface {
	// Generate 发起一次非流式文本生成
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
	// ListModels 列出供应商侧可用模型
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
