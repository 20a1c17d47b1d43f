package dto

import (
	"time"

	"llm-credits-api/internal/domain/entity"
)

// UpsertAPIKeyRequest 写入供应商密钥请求
type UpsertAPIKeyRequest struct {
	Provider string `json:"provider" binding:"required"`
	Key      string `json:"key" binding:"required"`
}

// APIKeyResponse 密钥响应，密钥值脱敏
type APIKeyResponse struct {
	Provider  string    `json:"provider"`
	MaskedKey string    `json:"masked_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAPIKeyResponses 转换密钥列表
func ToAPIKeyResponses(keys []*entity.APIKey) []*APIKeyResponse {
	out := make([]*APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, &APIKeyResponse{
			Provider:  string(k.Provider),
			MaskedKey: k.Masked(),
			UpdatedAt: k.UpdatedAt,
		})
	}
	return out
}
