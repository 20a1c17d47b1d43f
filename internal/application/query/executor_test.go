package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/application/credits"
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/domain/service"
	"llm-credits-api/internal/infrastructure/llm"
	apperrors "llm-credits-api/pkg/errors"
)

// ---- 内存仓储 ----

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.User], error) {
	return nil, errors.New("not implemented")
}

// DebitCredits 模拟数据库条件更新的原子语义
func (r *memUserRepo) DebitCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.Credits += amount
	return u.Credits, nil
}

func (r *memUserRepo) balance(userID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID].Credits
}

func (r *memUserRepo) snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	balances := make(map[string]int64, len(r.users))
	for id, u := range r.users {
		balances[id] = u.Credits
	}
	return balances
}

func (r *memUserRepo) restore(balances map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, credits := range balances {
		if u, ok := r.users[id]; ok {
			u.Credits = credits
		}
	}
}

type memModelRepo struct {
	mu     sync.Mutex
	models map[string]*entity.Model
}

func newMemModelRepo() *memModelRepo {
	return &memModelRepo{models: make(map[string]*entity.Model)}
}

func (r *memModelRepo) Create(ctx context.Context, m *entity.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.ProviderID] = m
	return nil
}

func (r *memModelRepo) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	return nil, nil
}

func (r *memModelRepo) GetByProviderID(ctx context.Context, providerID string) (*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[providerID]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (r *memModelRepo) Update(ctx context.Context, m *entity.Model) error { return nil }
func (r *memModelRepo) Delete(ctx context.Context, id string) error       { return nil }

func (r *memModelRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Model], error) {
	return nil, errors.New("not implemented")
}

func (r *memModelRepo) ListEnabled(ctx context.Context) ([]*entity.Model, error) {
	return nil, nil
}

func (r *memModelRepo) ListPublic(ctx context.Context) ([]*entity.Model, error) {
	return nil, nil
}

func (r *memModelRepo) Upsert(ctx context.Context, m *entity.Model) error {
	return r.Create(ctx, m)
}

type memQueryRepo struct {
	mu      sync.Mutex
	records []*entity.Query
}

func (r *memQueryRepo) Create(ctx context.Context, q *entity.Query) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = fmt.Sprintf("q-%d", len(r.records)+1)
	r.records = append(r.records, q)
	return nil
}

func (r *memQueryRepo) GetByID(ctx context.Context, id string) (*entity.Query, error) {
	return nil, nil
}

func (r *memQueryRepo) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Query
	for _, q := range r.records {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

func (r *memQueryRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	return nil, errors.New("not implemented")
}

func (r *memQueryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *memQueryRepo) snapshot() []*entity.Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Query(nil), r.records...)
}

func (r *memQueryRepo) restore(records []*entity.Query) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
}

// ---- 供应商侧桩 ----

type stubClient struct {
	calls  int64
	result *llm.GenerationResult
	err    error
}

func (c *stubClient) Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.GenerationResult, error) {
	atomic.AddInt64(&c.calls, 1)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *stubClient) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	return nil, nil
}

type stubResolver struct {
	client llm.Client
	err    error
}

func (r *stubResolver) ClientFor(ctx context.Context, provider entity.Provider) (llm.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.client, nil
}

// passthroughTx 直接执行函数体，事务语义由仓储桩自身保证
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// snapshotTx 函数体出错时恢复仓储快照，模拟数据库事务回滚
type snapshotTx struct {
	userRepo  *memUserRepo
	queryRepo *memQueryRepo
}

func (t snapshotTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	balances := t.userRepo.snapshot()
	records := t.queryRepo.snapshot()
	if err := fn(ctx); err != nil {
		t.userRepo.restore(balances)
		t.queryRepo.restore(records)
		return err
	}
	return nil
}

// ---- 测试脚手架 ----

type fixture struct {
	executor  *Executor
	userRepo  *memUserRepo
	modelRepo *memModelRepo
	queryRepo *memQueryRepo
	client    *stubClient
}

func newFixture(t *testing.T, resolver ClientResolver, client *stubClient) *fixture {
	t.Helper()

	userRepo := newMemUserRepo()
	modelRepo := newMemModelRepo()
	queryRepo := &memQueryRepo{}
	ledger := credits.NewLedger(userRepo, &noopTxRepo{})

	if resolver == nil {
		resolver = &stubResolver{client: client}
	}

	billing := &config.BillingConfig{
		MaxPromptLength:   1000,
		SignupCreditGrant: 100,
		DefaultMaxTokens:  1024,
	}

	executor := NewExecutor(
		userRepo, modelRepo, queryRepo,
		resolver, ledger, service.NewCostCalculator(),
		passthroughTx{}, billing,
	)

	return &fixture{
		executor:  executor,
		userRepo:  userRepo,
		modelRepo: modelRepo,
		queryRepo: queryRepo,
		client:    client,
	}
}

type noopTxRepo struct{}

func (noopTxRepo) Create(ctx context.Context, tx *entity.Transaction) error { return nil }
func (noopTxRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return nil, nil
}
func (noopTxRepo) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) error {
	return nil
}
func (noopTxRepo) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	return nil, nil
}
func (noopTxRepo) List(ctx context.Context, p repository.Pagination) (*repository.PagedResult[*entity.Transaction], error) {
	return nil, nil
}

func seedUser(t *testing.T, f *fixture, credits int64) *entity.User {
	t.Helper()
	u := &entity.User{ID: "user-1", Username: "alice", Credits: credits}
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return u
}

func seedModel(t *testing.T, f *fixture, enabled bool) *entity.Model {
	t.Helper()
	m := &entity.Model{
		ID:         "model-uuid-1",
		ProviderID: "gpt-4",
		Provider:   entity.ProviderOpenAI,
		InputCost:  150,
		OutputCost: 200,
		Enabled:    enabled,
	}
	require.NoError(t, f.modelRepo.Create(context.Background(), m))
	return m
}

// ---- 用例 ----

func TestExecutor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("成功生成后按实际用量精确扣费", func(t *testing.T) {
		client := &stubClient{result: &llm.GenerationResult{
			Text:          "generated text",
			InputTokens:   100,
			OutputTokens:  50,
			UsageReported: true,
		}}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)
		seedModel(t, f, true)

		result, err := f.executor.Execute(ctx, "user-1", "gpt-4", "tell me a story")
		require.NoError(t, err)

		// 100/1000*150 + 50/1000*200 = 15 + 10 = 25
		assert.Equal(t, int64(25), result.TotalCost)
		assert.Equal(t, int64(975), result.RemainingCredits)
		assert.Equal(t, "generated text", result.Response)
		assert.Equal(t, int64(975), f.userRepo.balance("user-1"))
		assert.Equal(t, 1, f.queryRepo.count())
		assert.EqualValues(t, 1, client.calls)
	})

	t.Run("停用模型直接拒绝且不调用供应商", func(t *testing.T) {
		client := &stubClient{result: &llm.GenerationResult{Text: "x", UsageReported: true}}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)
		seedModel(t, f, false)

		_, err := f.executor.Execute(ctx, "user-1", "gpt-4", "hello")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeModelDisabled, appErr.Code)
		assert.EqualValues(t, 0, client.calls)
		assert.Equal(t, 0, f.queryRepo.count())
		assert.Equal(t, int64(1000), f.userRepo.balance("user-1"))
	})

	t.Run("未知模型按无效输入拒绝", func(t *testing.T) {
		client := &stubClient{}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)

		_, err := f.executor.Execute(ctx, "user-1", "no-such-model", "hello")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeUnknownModel, appErr.Code)
		assert.Equal(t, 400, appErr.HTTPStatus)
		assert.EqualValues(t, 0, client.calls)
	})

	t.Run("余额不足预检拦截且零次供应商调用", func(t *testing.T) {
		client := &stubClient{result: &llm.GenerationResult{Text: "x", UsageReported: true}}
		f := newFixture(t, nil, client)
		seedUser(t, f, 10)
		seedModel(t, f, true)

		// 400 字节提示词估 100 token，均价 175/1000 预估 18 > 10
		prompt := strings.Repeat("a", 400)
		_, err := f.executor.Execute(ctx, "user-1", "gpt-4", prompt)
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInsufficientCredits, appErr.Code)
		assert.EqualValues(t, 0, client.calls)
		assert.Equal(t, 0, f.queryRepo.count())
		assert.Equal(t, int64(10), f.userRepo.balance("user-1"))
	})

	t.Run("供应商失败不落库不扣费", func(t *testing.T) {
		client := &stubClient{err: errors.New("upstream 500")}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)
		seedModel(t, f, true)

		_, err := f.executor.Execute(ctx, "user-1", "gpt-4", "hello")
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeProviderError, appErr.Code)
		assert.EqualValues(t, 1, client.calls)
		assert.Equal(t, 0, f.queryRepo.count())
		assert.Equal(t, int64(1000), f.userRepo.balance("user-1"))
	})

	t.Run("未配置密钥时拒绝且不调用供应商", func(t *testing.T) {
		client := &stubClient{}
		resolver := &stubResolver{err: apperrors.ErrNoAPIKeyConfigured}
		f := newFixture(t, resolver, client)
		seedUser(t, f, 1000)
		seedModel(t, f, true)

		_, err := f.executor.Execute(ctx, "user-1", "gpt-4", "hello")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeNoAPIKeyConfigured, appErr.Code)
		assert.EqualValues(t, 0, client.calls)
		assert.Equal(t, 0, f.queryRepo.count())
	})

	t.Run("空提示词与超长提示词均拒绝", func(t *testing.T) {
		client := &stubClient{}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)
		seedModel(t, f, true)

		_, err := f.executor.Execute(ctx, "user-1", "gpt-4", "")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidPrompt, appErr.Code)

		_, err = f.executor.Execute(ctx, "user-1", "gpt-4", strings.Repeat("a", 1001))
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidPrompt, appErr.Code)
		assert.EqualValues(t, 0, client.calls)
	})

	t.Run("供应商未回报用量时按字节估算", func(t *testing.T) {
		// 响应 40 字节估 10 token，提示词 8 字节估 2 token
		client := &stubClient{result: &llm.GenerationResult{
			Text:          strings.Repeat("b", 40),
			UsageReported: false,
		}}
		f := newFixture(t, nil, client)
		seedUser(t, f, 1000)
		seedModel(t, f, true)

		result, err := f.executor.Execute(ctx, "user-1", "gpt-4", "12345678")
		require.NoError(t, err)
		assert.Equal(t, 2, result.InputTokens)
		assert.Equal(t, 10, result.OutputTokens)
		// round(2/1000*150)=0, round(10/1000*200)=2
		assert.Equal(t, int64(2), result.TotalCost)
	})

	t.Run("未知用户返回用户未找到", func(t *testing.T) {
		client := &stubClient{}
		f := newFixture(t, nil, client)
		seedModel(t, f, true)

		_, err := f.executor.Execute(ctx, "ghost", "gpt-4", "hello")
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeUserNotFound, appErr.Code)
	})
}

func TestExecutor_SettleFailureRollsBackRecord(t *testing.T) {
	ctx := context.Background()

	// 实际用量远超预估：1000/1000 token 按 150/200 计 350，余额 100 结算必失败
	client := &stubClient{result: &llm.GenerationResult{
		Text:          "ok",
		InputTokens:   1000,
		OutputTokens:  1000,
		UsageReported: true,
	}}

	userRepo := newMemUserRepo()
	modelRepo := newMemModelRepo()
	queryRepo := &memQueryRepo{}
	ledger := credits.NewLedger(userRepo, &noopTxRepo{})
	billing := &config.BillingConfig{
		MaxPromptLength:   1000,
		SignupCreditGrant: 100,
		DefaultMaxTokens:  1024,
	}

	executor := NewExecutor(
		userRepo, modelRepo, queryRepo,
		&stubResolver{client: client}, ledger, service.NewCostCalculator(),
		snapshotTx{userRepo: userRepo, queryRepo: queryRepo}, billing,
	)

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "user-1", Username: "alice", Credits: 100}))
	require.NoError(t, modelRepo.Create(ctx, &entity.Model{
		ID:         "model-uuid-1",
		ProviderID: "gpt-4",
		Provider:   entity.ProviderOpenAI,
		InputCost:  150,
		OutputCost: 200,
		Enabled:    true,
	}))

	_, err := executor.Execute(ctx, "user-1", "gpt-4", "hello")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInsufficientCredits, appErr.Code)

	// 扣费失败时记录与扣费一并回滚：历史不留行，余额分文未动
	assert.Equal(t, 0, queryRepo.count())
	assert.Equal(t, int64(100), userRepo.balance("user-1"))
	assert.EqualValues(t, 1, client.calls)
}

func TestExecutor_ConcurrentDebitsNeverGoNegative(t *testing.T) {
	ctx := context.Background()

	// 每次成功查询花费 25，余额 100 只够 4 次
	client := &stubClient{result: &llm.GenerationResult{
		Text:          "ok",
		InputTokens:   100,
		OutputTokens:  50,
		UsageReported: true,
	}}
	f := newFixture(t, nil, client)
	seedUser(t, f, 100)
	seedModel(t, f, true)

	const workers = 16
	var wg sync.WaitGroup
	var successes int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.executor.Execute(ctx, "user-1", "gpt-4", "hello"); err == nil {
				atomic.AddInt64(&successes, 1)
			}
		}()
	}
	wg.Wait()

	balance := f.userRepo.balance("user-1")
	assert.GreaterOrEqual(t, balance, int64(0), "balance must never go negative")
	assert.Equal(t, int64(100)-successes*25, balance)
	assert.LessOrEqual(t, successes, int64(4))
}
