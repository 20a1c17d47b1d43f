package dto

import (
	"time"

	"llm-credits-api/internal/domain/entity"
)

// ModelResponse 模型响应（管理端完整视图）
type ModelResponse struct {
	ID            string    `json:"id"`
	ProviderID    string    `json:"provider_id"`
	DisplayName   string    `json:"display_name"`
	Provider      string    `json:"provider"`
	InputCost     int64     `json:"input_cost"`
	OutputCost    int64     `json:"output_cost"`
	Enabled       bool      `json:"enabled"`
	IsPublic      bool      `json:"is_public"`
	ContextWindow int       `json:"context_window,omitempty"`
	MaxTokens     int       `json:"max_tokens,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicModelResponse 公开目录视图，不暴露内部 ID 与开关
type PublicModelResponse struct {
	ProviderID  string `json:"id"`
	DisplayName string `json:"display_name"`
	Provider    string `json:"provider"`
	InputCost   int64  `json:"input_cost"`
	OutputCost  int64  `json:"output_cost"`
}

// ToModelResponse 转换模型实体
func ToModelResponse(m *entity.Model) *ModelResponse {
	return &ModelResponse{
		ID:            m.ID,
		ProviderID:    m.ProviderID,
		DisplayName:   m.DisplayName,
		Provider:      string(m.Provider),
		InputCost:     m.InputCost,
		OutputCost:    m.OutputCost,
		Enabled:       m.Enabled,
		IsPublic:      m.IsPublic,
		ContextWindow: m.ContextWindow,
		MaxTokens:     m.MaxTokens,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToModelResponses 转换模型实体列表
func ToModelResponses(models []*entity.Model) []*ModelResponse {
	out := make([]*ModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, ToModelResponse(m))
	}
	return out
}

// ToPublicModelResponses 转换为公开目录视图
func ToPublicModelResponses(models []*entity.Model) []*PublicModelResponse {
	out := make([]*PublicModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, &PublicModelResponse{
			ProviderID:  m.ProviderID,
			DisplayName: m.DisplayName,
			Provider:    string(m.Provider),
			InputCost:   m.InputCost,
			OutputCost:  m.OutputCost,
		})
	}
	return out
}

// CreateModelRequest 管理端创建模型请求
type CreateModelRequest struct {
	ProviderID    string `json:"provider_id" binding:"required,max=64"`
	DisplayName   string `json:"display_name" binding:"required,max=128"`
	Provider      string `json:"provider" binding:"required"`
	InputCost     int64  `json:"input_cost" binding:"min=0"`
	OutputCost    int64  `json:"output_cost" binding:"min=0"`
	Enabled       bool   `json:"enabled"`
	IsPublic      bool   `json:"is_public"`
	ContextWindow int    `json:"context_window"`
	MaxTokens     int    `json:"max_tokens"`
}

// UpdateModelRequest 管理端更新模型请求，零值字段不更新
type UpdateModelRequest struct {
	DisplayName   *string `json:"display_name,omitempty"`
	InputCost     *int64  `json:"input_cost,omitempty"`
	OutputCost    *int64  `json:"output_cost,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"`
	IsPublic      *bool   `json:"is_public,omitempty"`
	ContextWindow *int    `json:"context_window,omitempty"`
	MaxTokens     *int    `json:"max_tokens,omitempty"`
}
