// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// PaymentMethod 支付方式配置，仅作为惰性配置存储，核心流水线不读取
type PaymentMethod struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string         `json:"name" gorm:"type:varchar(64);uniqueIndex;not null"`
	Type       string         `json:"type" gorm:"type:varchar(32);not null"` // e.g. card/paypal/crypto
	Currencies pq.StringArray `json:"currencies" gorm:"type:text[]"`
	Config     string         `json:"config,omitempty" gorm:"type:jsonb;default:'{}'"`
	Enabled    bool           `json:"enabled" gorm:"not null;default:false"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TransactionStatus 充值流水状态
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction 额度充值的审计流水，由管理端或支付回调写入
type Transaction struct {
	ID        string            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string            `json:"user_id" gorm:"type:uuid;index;not null"`
	MethodID  string            `json:"method_id,omitempty" gorm:"type:uuid;default:null"`
	Amount    int64             `json:"amount" gorm:"not null;default:0"` // 货币最小单位
	Credits   int64             `json:"credits" gorm:"not null;default:0"`
	Status    TransactionStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
}
