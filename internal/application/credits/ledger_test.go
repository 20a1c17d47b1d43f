package credits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
)

// memUserRepo 内存用户仓储，区分用户不存在与余额不足
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.User], error) {
	return nil, errors.New("not implemented")
}

func (r *memUserRepo) DebitCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if u.Credits < amount {
		return 0, repository.ErrInsufficientCredits
	}
	u.Credits -= amount
	return u.Credits, nil
}

func (r *memUserRepo) CreditCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.Credits += amount
	return u.Credits, nil
}

type memTxRepo struct {
	created []*entity.Transaction
}

func (r *memTxRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	r.created = append(r.created, tx)
	return nil
}

func (r *memTxRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return nil, nil
}

func (r *memTxRepo) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) error {
	return nil
}

func (r *memTxRepo) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	return nil, nil
}

func (r *memTxRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	return nil, nil
}

func newLedgerFixture(t *testing.T, credits int64) (*Ledger, *memUserRepo, *memTxRepo) {
	t.Helper()
	userRepo := newMemUserRepo()
	txRepo := &memTxRepo{}
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		ID:       "user-1",
		Username: "alice",
		Credits:  credits,
	}))
	return NewLedger(userRepo, txRepo), userRepo, txRepo
}

func TestLedger_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("正常扣减返回新余额", func(t *testing.T) {
		ledger, _, _ := newLedgerFixture(t, 100)

		balance, err := ledger.Debit(ctx, "user-1", 25, "openai", "gpt-4")
		require.NoError(t, err)
		assert.Equal(t, int64(75), balance)
	})

	t.Run("余额不足返回业务错误且不变动", func(t *testing.T) {
		ledger, userRepo, _ := newLedgerFixture(t, 10)

		_, err := ledger.Debit(ctx, "user-1", 25, "openai", "gpt-4")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInsufficientCredits, appErr.Code)
		assert.Equal(t, int64(10), userRepo.users["user-1"].Credits)
	})

	t.Run("用户不存在返回用户未找到而非余额不足", func(t *testing.T) {
		ledger, _, _ := newLedgerFixture(t, 100)

		_, err := ledger.Debit(ctx, "ghost", 25, "admin", "adjustment")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeUserNotFound, appErr.Code)
		assert.Equal(t, 404, appErr.HTTPStatus)
	})

	t.Run("非正数金额拒绝", func(t *testing.T) {
		ledger, _, _ := newLedgerFixture(t, 100)

		_, err := ledger.Debit(ctx, "user-1", 0, "openai", "gpt-4")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
	})
}

func TestLedger_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("入账并写审计流水", func(t *testing.T) {
		ledger, _, txRepo := newLedgerFixture(t, 100)

		balance, err := ledger.Grant(ctx, "user-1", 50, "")
		require.NoError(t, err)
		assert.Equal(t, int64(150), balance)
		require.Len(t, txRepo.created, 1)
		assert.Equal(t, int64(50), txRepo.created[0].Credits)
		assert.Equal(t, entity.TransactionCompleted, txRepo.created[0].Status)
	})

	t.Run("用户不存在返回用户未找到", func(t *testing.T) {
		ledger, _, txRepo := newLedgerFixture(t, 100)

		_, err := ledger.Grant(ctx, "ghost", 50, "")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeUserNotFound, appErr.Code)
		assert.Empty(t, txRepo.created)
	})
}
