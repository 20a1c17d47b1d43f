// Package payment 提供支付方式与充值流水管理
//
// 支付方式是惰性配置，查询流水线不依赖它们，
// 充值入账统一走额度账本
package payment

import (
	"context"

	"go.opentelemetry.io/otel"

	"llm-credits-api/internal/application/credits"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
)

var tracer = otel.Tracer("payment")

// Service 支付管理服务
type Service struct {
	methodRepo repository.PaymentMethodRepository
	txRepo     repository.TransactionRepository
	ledger     *credits.Ledger
}

// NewService 创建支付管理服务
func NewService(methodRepo repository.PaymentMethodRepository, txRepo repository.TransactionRepository, ledger *credits.Ledger) *Service {
	return &Service{
		methodRepo: methodRepo,
		txRepo:     txRepo,
		ledger:     ledger,
	}
}

// CreateMethod 创建支付方式
func (s *Service) CreateMethod(ctx context.Context, method *entity.PaymentMethod) error {
	ctx, span := tracer.Start(ctx, "payment.Service.CreateMethod")
	defer span.End()

	if method.Name == "" {
		return apperrors.ErrInvalidParam.WithDetail("name is required")
	}
	return s.methodRepo.Create(ctx, method)
}

// GetMethod 获取支付方式
func (s *Service) GetMethod(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	ctx, span := tracer.Start(ctx, "payment.Service.GetMethod")
	defer span.End()

	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperrors.ErrNotFound.WithDetail("payment method: " + id)
	}
	return method, nil
}

// UpdateMethod 更新支付方式
func (s *Service) UpdateMethod(ctx context.Context, method *entity.PaymentMethod) error {
	ctx, span := tracer.Start(ctx, "payment.Service.UpdateMethod")
	defer span.End()

	return s.methodRepo.Update(ctx, method)
}

// DeleteMethod 删除支付方式
func (s *Service) DeleteMethod(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "payment.Service.DeleteMethod")
	defer span.End()

	return s.methodRepo.Delete(ctx, id)
}

// ListMethods 列出支付方式
func (s *Service) ListMethods(ctx context.Context) ([]*entity.PaymentMethod, error) {
	ctx, span := tracer.Start(ctx, "payment.Service.ListMethods")
	defer span.End()

	return s.methodRepo.List(ctx)
}

// TopUp 管理端为用户充值额度，经由账本入账并落审计流水
func (s *Service) TopUp(ctx context.Context, userID string, creditAmount int64, methodID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "payment.Service.TopUp")
	defer span.End()

	if methodID != "" {
		if _, err := s.GetMethod(ctx, methodID); err != nil {
			return 0, err
		}
	}
	return s.ledger.Grant(ctx, userID, creditAmount, methodID)
}

// ListTransactions 管理端全量充值流水
func (s *Service) ListTransactions(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	ctx, span := tracer.Start(ctx, "payment.Service.ListTransactions")
	defer span.End()

	return s.txRepo.List(ctx, pagination)
}

// ListUserTransactions 按用户列出充值流水
func (s *Service) ListUserTransactions(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	ctx, span := tracer.Start(ctx, "payment.Service.ListUserTransactions")
	defer span.End()

	return s.txRepo.ListByUser(ctx, userID, pagination)
}
