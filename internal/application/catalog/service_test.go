package catalog

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
)

// memModelRepo 内存模型仓储，按 provider_id 索引
type memModelRepo struct {
	mu     sync.Mutex
	models map[string]*entity.Model
	nextID int
}

func newMemModelRepo() *memModelRepo {
	return &memModelRepo{models: make(map[string]*entity.Model)}
}

func (r *memModelRepo) Create(_ context.Context, model *entity.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[model.ProviderID]; ok {
		return repository.ErrDuplicate
	}
	r.nextID++
	if model.ID == "" {
		model.ID = "model-" + strconv.Itoa(r.nextID)
	}
	cp := *model
	r.models[model.ProviderID] = &cp
	return nil
}

func (r *memModelRepo) GetByID(_ context.Context, id string) (*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.models {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memModelRepo) GetByProviderID(_ context.Context, providerID string) (*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[providerID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memModelRepo) Update(_ context.Context, model *entity.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *model
	r.models[model.ProviderID] = &cp
	return nil
}

func (r *memModelRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pid, m := range r.models {
		if m.ID == id {
			delete(r.models, pid)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memModelRepo) List(_ context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Model], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.Model, 0, len(r.models))
	for _, m := range r.models {
		cp := *m
		items = append(items, &cp)
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

func (r *memModelRepo) ListEnabled(_ context.Context) ([]*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Model
	for _, m := range r.models {
		if m.Enabled {
			cp := *m
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Provider != items[j].Provider {
			return items[i].Provider < items[j].Provider
		}
		return items[i].DisplayName < items[j].DisplayName
	})
	return items, nil
}

func (r *memModelRepo) ListPublic(_ context.Context) ([]*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Model
	for _, m := range r.models {
		if m.Enabled && m.IsPublic {
			cp := *m
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *memModelRepo) Upsert(_ context.Context, model *entity.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.models[model.ProviderID]; ok {
		// 保留本地定价与开关，仅刷新元数据
		existing.DisplayName = model.DisplayName
		existing.Provider = model.Provider
		existing.ContextWindow = model.ContextWindow
		existing.MaxTokens = model.MaxTokens
		return nil
	}
	r.nextID++
	cp := *model
	cp.ID = "model-" + strconv.Itoa(r.nextID)
	r.models[model.ProviderID] = &cp
	return nil
}

func seedModel(t *testing.T, repo *memModelRepo, providerID string, enabled, public bool) *entity.Model {
	t.Helper()
	m := &entity.Model{
		ProviderID:  providerID,
		DisplayName: providerID,
		Provider:    entity.ProviderOpenAI,
		InputCost:   150,
		OutputCost:  200,
		Enabled:     enabled,
		IsPublic:    public,
	}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestService_ListPublicFiltersDisabled(t *testing.T) {
	repo := newMemModelRepo()
	seedModel(t, repo, "gpt-4", true, true)
	seedModel(t, repo, "gpt-3.5-turbo", true, false)
	seedModel(t, repo, "claude-2", false, true)

	svc := NewService(repo, nil)

	models, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "gpt-4", models[0].ProviderID)
}

func TestService_ListEnabledIncludesPrivate(t *testing.T) {
	repo := newMemModelRepo()
	seedModel(t, repo, "gpt-4", true, true)
	seedModel(t, repo, "gpt-3.5-turbo", true, false)
	seedModel(t, repo, "claude-2", false, true)

	svc := NewService(repo, nil)

	models, err := svc.ListEnabled(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	// 启用但未公开的模型在列，停用模型不在列，按供应商与展示名排序
	assert.Equal(t, "gpt-3.5-turbo", models[0].ProviderID)
	assert.Equal(t, "gpt-4", models[1].ProviderID)
}

func TestService_CreateDuplicateConflicts(t *testing.T) {
	repo := newMemModelRepo()
	seedModel(t, repo, "gpt-4", true, true)

	svc := NewService(repo, nil)

	err := svc.Create(context.Background(), &entity.Model{
		ProviderID: "gpt-4",
		Provider:   entity.ProviderOpenAI,
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestService_CreateUnknownProvider(t *testing.T) {
	svc := NewService(newMemModelRepo(), nil)

	err := svc.Create(context.Background(), &entity.Model{
		ProviderID: "mystery-1",
		Provider:   entity.Provider("mystery"),
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(newMemModelRepo(), nil)

	_, err := svc.Get(context.Background(), "nope")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeModelNotFound, appErr.Code)
}
