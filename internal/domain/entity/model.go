// Package entity 定义领域实体
package entity

import "time"

// Provider LLM 供应商枚举
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderPalm      Provider = "palm"
)

// AllProviders 已支持的供应商全集，按固定顺序排列
var AllProviders = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderPalm}

// Valid 检查供应商取值是否合法
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderPalm:
		return true
	}
	return false
}

// PriceScale 定价定点倍率：1 货币单位 = 100000 个定价单位
const PriceScale = 100000

// Model 可计费模型，ProviderID 是供应商侧的模型标识（如 "gpt-4"）
// InputCost/OutputCost 为每 1000 token 的价格（PriceScale 定点单位）
type Model struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderID    string    `json:"provider_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	DisplayName   string    `json:"display_name" gorm:"type:varchar(128);not null"`
	Provider      Provider  `json:"provider" gorm:"type:varchar(32);index;not null"`
	InputCost     int64     `json:"input_cost" gorm:"not null;default:0"`
	OutputCost    int64     `json:"output_cost" gorm:"not null;default:0"`
	Enabled       bool      `json:"enabled" gorm:"not null;default:true"`
	IsPublic      bool      `json:"is_public" gorm:"not null;default:false"`
	ContextWindow int       `json:"context_window,omitempty"`
	MaxTokens     int       `json:"max_tokens,omitempty"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Servable 检查模型是否可被查询流水线使用
func (m *Model) Servable() bool {
	return m.Enabled
}
