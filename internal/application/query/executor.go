// Package query 实现查询执行流水线
package query

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"llm-credits-api/internal/application/credits"
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/domain/service"
	"llm-credits-api/internal/infrastructure/llm"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
	"llm-credits-api/pkg/metrics"
)

var tracer = otel.Tracer("query")

// ClientResolver 按供应商解析客户端，生产实现为 llm.Factory
type ClientResolver interface {
	ClientFor(ctx context.Context, provider entity.Provider) (llm.Client, error)
}

// Result 查询执行结果
type Result struct {
	QueryID          string `json:"query_id"`
	Response         string `json:"response"`
	InputTokens      int    `json:"input_tokens"`
	OutputTokens     int    `json:"output_tokens"`
	TotalCost        int64  `json:"total_cost"`
	RemainingCredits int64  `json:"remaining_credits"`
}

// Executor 查询执行器，串起校验、余额预检、生成、结算与落库
//
// 执行顺序固定：校验 → 预检 → 生成 → 记录+扣费（同一事务）。
// 生成调用期间不持有任何锁，余额的最终一致由扣费时的条件更新保证。
// 每个请求至多发起一次生成调用，失败不重试。
type Executor struct {
	userRepo  repository.UserRepository
	modelRepo repository.ModelRepository
	queryRepo repository.QueryRepository
	resolver  ClientResolver
	ledger    *credits.Ledger
	calc      *service.CostCalculator
	txManager repository.Transactor
	billing   *config.BillingConfig
}

// NewExecutor 创建查询执行器
func NewExecutor(
	userRepo repository.UserRepository,
	modelRepo repository.ModelRepository,
	queryRepo repository.QueryRepository,
	resolver ClientResolver,
	ledger *credits.Ledger,
	calc *service.CostCalculator,
	txManager repository.Transactor,
	billing *config.BillingConfig,
) *Executor {
	return &Executor{
		userRepo:  userRepo,
		modelRepo: modelRepo,
		queryRepo: queryRepo,
		resolver:  resolver,
		ledger:    ledger,
		calc:      calc,
		txManager: txManager,
		billing:   billing,
	}
}

// Execute 执行一次计费查询
func (e *Executor) Execute(ctx context.Context, userID, modelID, prompt string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "query.Executor.Execute")
	span.SetAttributes(attribute.String("query.model_id", modelID))
	defer span.End()

	start := time.Now()

	// 1. 输入校验，不触碰任何状态
	if err := e.validatePrompt(prompt); err != nil {
		metrics.QueryRejectedTotal.WithLabelValues("invalid_prompt").Inc()
		return nil, err
	}

	model, err := e.modelRepo.GetByProviderID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		// 未知模型按输入错误处理，与停用模型同属 400
		metrics.QueryRejectedTotal.WithLabelValues("unknown_model").Inc()
		return nil, apperrors.ErrUnknownModel.WithDetail("model: " + modelID)
	}
	if !model.Servable() {
		metrics.QueryRejectedTotal.WithLabelValues("model_disabled").Inc()
		return nil, apperrors.ErrModelDisabled.WithDetail("model: " + modelID)
	}

	// 2. 余额预检，仅读快照，不加锁不预扣
	user, err := e.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	estimate := e.calc.EstimateCost(model, prompt)
	if !user.CanAfford(estimate) {
		metrics.QueryRejectedTotal.WithLabelValues("insufficient_credits").Inc()
		return nil, apperrors.ErrInsufficientCredits
	}

	// 3. 解析客户端并发起生成，至多一次
	client, err := e.resolver.ClientFor(ctx, model.Provider)
	if err != nil {
		metrics.QueryRejectedTotal.WithLabelValues("no_api_key").Inc()
		return nil, err
	}

	provider := string(model.Provider)
	genStart := time.Now()
	gen, err := client.Generate(ctx, &llm.GenerationRequest{
		Model:     model.ProviderID,
		Prompt:    prompt,
		MaxTokens: e.maxTokensFor(model),
	})
	metrics.LLMCallDuration.WithLabelValues(provider, model.ProviderID).Observe(time.Since(genStart).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(provider, model.ProviderID, "error").Inc()
		metrics.QueryTotal.WithLabelValues(provider, model.ProviderID, "provider_error").Inc()
		logger.Error(ctx, "llm generation failed", err,
			"user_id", userID,
			"model", model.ProviderID,
		)
		// 生成失败不落库不扣费
		return nil, apperrors.ErrProviderError.WithError(err)
	}
	metrics.LLMCallTotal.WithLabelValues(provider, model.ProviderID, "success").Inc()

	// 4. 用量结算，供应商未回报用量时按字节数估算
	inputTokens, outputTokens := gen.InputTokens, gen.OutputTokens
	if !gen.UsageReported {
		inputTokens = service.EstimateTokens(prompt)
		outputTokens = service.EstimateTokens(gen.Text)
	}
	breakdown := e.calc.Calculate(model, inputTokens, outputTokens)

	metrics.LLMTokensUsed.WithLabelValues(provider, model.ProviderID, "input").Add(float64(inputTokens))
	metrics.LLMTokensUsed.WithLabelValues(provider, model.ProviderID, "output").Add(float64(outputTokens))

	// 5. 记录与扣费在同一事务中提交
	record := &entity.Query{
		UserID:       userID,
		Prompt:       prompt,
		ModelID:      model.ProviderID,
		Provider:     model.Provider,
		Response:     gen.Text,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    breakdown.InputCost,
		OutputCost:   breakdown.OutputCost,
		TotalCost:    breakdown.TotalCost,
	}

	var remaining int64
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.queryRepo.Create(txCtx, record); err != nil {
			return err
		}
		if breakdown.TotalCost > 0 {
			balance, err := e.ledger.Debit(txCtx, userID, breakdown.TotalCost, provider, model.ProviderID)
			if err != nil {
				return err
			}
			remaining = balance
		} else {
			remaining = user.Credits
		}
		return nil
	})
	if err != nil {
		metrics.QueryTotal.WithLabelValues(provider, model.ProviderID, "settle_failed").Inc()
		return nil, err
	}

	metrics.QueryTotal.WithLabelValues(provider, model.ProviderID, "success").Inc()
	metrics.QueryDuration.WithLabelValues(provider, model.ProviderID).Observe(time.Since(start).Seconds())

	logger.Info(ctx, "query completed",
		"user_id", userID,
		"model", model.ProviderID,
		"input_tokens", inputTokens,
		"output_tokens", outputTokens,
		"total_cost", breakdown.TotalCost,
		"remaining", remaining,
	)

	return &Result{
		QueryID:          record.ID,
		Response:         gen.Text,
		InputTokens:      inputTokens,
		OutputTokens:     outputTokens,
		TotalCost:        breakdown.TotalCost,
		RemainingCredits: remaining,
	}, nil
}

// ListByUser 查询当前用户的历史记录
func (e *Executor) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	ctx, span := tracer.Start(ctx, "query.Executor.ListByUser")
	defer span.End()

	return e.queryRepo.ListByUser(ctx, userID, pagination)
}

// List 管理端全量查询流水
func (e *Executor) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Query], error) {
	ctx, span := tracer.Start(ctx, "query.Executor.List")
	defer span.End()

	return e.queryRepo.List(ctx, pagination)
}

// validatePrompt 校验提示词长度，上限可配置
func (e *Executor) validatePrompt(prompt string) error {
	if prompt == "" {
		return apperrors.ErrInvalidPrompt.WithDetail("prompt is empty")
	}
	if len(prompt) > e.billing.MaxPromptLength {
		return apperrors.ErrInvalidPrompt.WithDetail("prompt exceeds maximum length")
	}
	return nil
}

// maxTokensFor 生成请求的输出上限：模型自带上限优先，否则取全局默认
func (e *Executor) maxTokensFor(model *entity.Model) int {
	if model.MaxTokens > 0 {
		return model.MaxTokens
	}
	return e.billing.DefaultMaxTokens
}
