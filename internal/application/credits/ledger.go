// Package credits 提供额度账本服务
package credits

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
	"llm-credits-api/pkg/metrics"
)

var tracer = otel.Tracer("credits")

// Ledger 额度账本，所有余额变动都经由此处
// 扣减依赖数据库条件更新保证不出现负余额，应用层不持锁
type Ledger struct {
	userRepo repository.UserRepository
	txRepo   repository.TransactionRepository
}

// NewLedger 创建额度账本
func NewLedger(userRepo repository.UserRepository, txRepo repository.TransactionRepository) *Ledger {
	return &Ledger{
		userRepo: userRepo,
		txRepo:   txRepo,
	}
}

// Debit 扣减用户额度，余额不足时返回业务错误且不产生任何变动
// 返回扣减后的余额
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, provider, model string) (int64, error) {
	ctx, span := tracer.Start(ctx, "credits.Ledger.Debit")
	defer span.End()

	if amount <= 0 {
		return 0, apperrors.ErrInvalidParam.WithDetail("debit amount must be positive")
	}

	balance, err := l.userRepo.DebitCredits(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return 0, apperrors.ErrInsufficientCredits
		}
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		span.RecordError(err)
		return 0, err
	}

	metrics.CreditsDebitedTotal.WithLabelValues(provider, model).Add(float64(amount))
	logger.Debug(ctx, "credits debited",
		"user_id", userID,
		"amount", amount,
		"balance", balance,
	)
	return balance, nil
}

// Grant 增加用户额度并写入审计流水
func (l *Ledger) Grant(ctx context.Context, userID string, amount int64, methodID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "credits.Ledger.Grant")
	defer span.End()

	if amount <= 0 {
		return 0, apperrors.ErrInvalidParam.WithDetail("grant amount must be positive")
	}

	balance, err := l.userRepo.CreditCredits(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		span.RecordError(err)
		return 0, err
	}

	tx := &entity.Transaction{
		UserID:   userID,
		MethodID: methodID,
		Credits:  amount,
		Status:   entity.TransactionCompleted,
	}
	if err := l.txRepo.Create(ctx, tx); err != nil {
		// 审计流水写入失败不回滚余额，仅记录日志
		logger.Error(ctx, "failed to record credit transaction", err,
			"user_id", userID,
			"amount", amount,
		)
	}

	metrics.CreditsGrantedTotal.Add(float64(amount))
	logger.Info(ctx, "credits granted",
		"user_id", userID,
		"amount", amount,
		"balance", balance,
	)
	return balance, nil
}
