package dto

import (
	"time"

	"llm-credits-api/internal/domain/entity"
)

// PaymentMethodRequest 支付方式写入请求
type PaymentMethodRequest struct {
	Name       string   `json:"name" binding:"required,max=64"`
	Type       string   `json:"type" binding:"required,max=32"`
	Currencies []string `json:"currencies"`
	Config     string   `json:"config"`
	Enabled    bool     `json:"enabled"`
}

// PaymentMethodResponse 支付方式响应
type PaymentMethodResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Currencies []string  `json:"currencies"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPaymentMethodResponse 转换支付方式实体
func ToPaymentMethodResponse(m *entity.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:         m.ID,
		Name:       m.Name,
		Type:       m.Type,
		Currencies: m.Currencies,
		Enabled:    m.Enabled,
		CreatedAt:  m.CreatedAt,
	}
}

// ToPaymentMethodResponses 转换支付方式列表
func ToPaymentMethodResponses(methods []*entity.PaymentMethod) []*PaymentMethodResponse {
	out := make([]*PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, ToPaymentMethodResponse(m))
	}
	return out
}

// TopUpRequest 管理端充值请求
type TopUpRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Credits  int64  `json:"credits" binding:"required,min=1"`
	MethodID string `json:"method_id"`
}

// TransactionResponse 充值流水响应
type TransactionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MethodID  string    `json:"method_id,omitempty"`
	Amount    int64     `json:"amount"`
	Credits   int64     `json:"credits"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTransactionResponses 转换充值流水列表
func ToTransactionResponses(txs []*entity.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, &TransactionResponse{
			ID:        tx.ID,
			UserID:    tx.UserID,
			MethodID:  tx.MethodID,
			Amount:    tx.Amount,
			Credits:   tx.Credits,
			Status:    string(tx.Status),
			CreatedAt: tx.CreatedAt,
		})
	}
	return out
}
