// Package entity 定义领域实体
package entity

import "time"

// Query 不可变的查询流水记录，仅在生成成功后写入一次
// InputCost/OutputCost/TotalCost 为生成时按当时价格结算的额度，
// 模型调价不会回溯修改历史记录
type Query struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Prompt       string    `json:"prompt" gorm:"type:text;not null"`
	ModelID      string    `json:"model_id" gorm:"type:varchar(64);not null"`
	Provider     Provider  `json:"provider" gorm:"type:varchar(32);not null"`
	Response     string    `json:"response" gorm:"type:text;not null"`
	InputTokens  int       `json:"input_tokens" gorm:"not null;default:0"`
	OutputTokens int       `json:"output_tokens" gorm:"not null;default:0"`
	InputCost    int64     `json:"input_cost" gorm:"not null;default:0"`
	OutputCost   int64     `json:"output_cost" gorm:"not null;default:0"`
	TotalCost    int64     `json:"total_cost" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Query) TableName() string {
	return "queries"
}
