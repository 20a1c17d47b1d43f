package dto

import (
	"time"

	"llm-credits-api/internal/domain/entity"
)

// QueryRequest 计费查询请求
type QueryRequest struct {
	ModelID string `json:"model_id" binding:"required,max=64"`
	Prompt  string `json:"prompt" binding:"required"`
}

// QueryResponse 计费查询结果
type QueryResponse struct {
	QueryID          string `json:"query_id"`
	Response         string `json:"response"`
	InputTokens      int    `json:"input_tokens"`
	OutputTokens     int    `json:"output_tokens"`
	TotalCost        int64  `json:"total_cost"`
	RemainingCredits int64  `json:"remaining_credits"`
}

// QueryRecordResponse 历史查询记录
type QueryRecordResponse struct {
	ID           string    `json:"id"`
	ModelID      string    `json:"model_id"`
	Provider     string    `json:"provider"`
	Prompt       string    `json:"prompt"`
	Response     string    `json:"response"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	TotalCost    int64     `json:"total_cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToQueryRecordResponse 转换查询流水实体
func ToQueryRecordResponse(q *entity.Query) *QueryRecordResponse {
	return &QueryRecordResponse{
		ID:           q.ID,
		ModelID:      q.ModelID,
		Provider:     string(q.Provider),
		Prompt:       q.Prompt,
		Response:     q.Response,
		InputTokens:  q.InputTokens,
		OutputTokens: q.OutputTokens,
		TotalCost:    q.TotalCost,
		CreatedAt:    q.CreatedAt,
	}
}

// ToQueryRecordResponses 转换查询流水列表
func ToQueryRecordResponses(queries []*entity.Query) []*QueryRecordResponse {
	out := make([]*QueryRecordResponse, 0, len(queries))
	for _, q := range queries {
		out = append(out, ToQueryRecordResponse(q))
	}
	return out
}

// AdminQueryRecordResponse 管理端查询流水，附带用户 ID
type AdminQueryRecordResponse struct {
	QueryRecordResponse
	UserID string `json:"user_id"`
}

// ToAdminQueryRecordResponses 转换管理端查询流水列表
func ToAdminQueryRecordResponses(queries []*entity.Query) []*AdminQueryRecordResponse {
	out := make([]*AdminQueryRecordResponse, 0, len(queries))
	for _, q := range queries {
		out = append(out, &AdminQueryRecordResponse{
			QueryRecordResponse: *ToQueryRecordResponse(q),
			UserID:              q.UserID,
		})
	}
	return out
}
