// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// APIKey 供应商密钥，每个供应商至多一条
type APIKey struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Provider  Provider  `json:"provider" gorm:"type:varchar(32);uniqueIndex;not null"`
	Key       string    `json:"-" gorm:"type:text;not null"` // 密钥明文不出现在 JSON 中
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Masked 返回脱敏后的密钥，用于管理端展示
func (k *APIKey) Masked() string {
	if len(k.Key) <= 8 {
		return strings.Repeat("*", len(k.Key))
	}
	return k.Key[:4] + strings.Repeat("*", 8) + k.Key[len(k.Key)-4:]
}
