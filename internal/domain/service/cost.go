// Package service 领域服务
package service

import (
	"math"

	"llm-credits-api/internal/domain/entity"
)

// CostBreakdown 一次生成的额度结算明细
type CostBreakdown struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	InputCost    int64 `json:"input_cost"`
	OutputCost   int64 `json:"output_cost"`
	TotalCost    int64 `json:"total_cost"`
}

// CostCalculator 纯函数额度计算器，无状态
type CostCalculator struct{}

// NewCostCalculator 创建额度计算器
func NewCostCalculator() *CostCalculator {
	return &CostCalculator{}
}

// costFor 按每 1000 token 的价格结算，四舍五入（远离零）
func costFor(tokens int, pricePerThousand int64) int64 {
	return int64(math.Round(float64(tokens) / 1000.0 * float64(pricePerThousand)))
}

// Calculate 根据实际用量与模型定价结算本次生成的额度
func (c *CostCalculator) Calculate(model *entity.Model, inputTokens, outputTokens int) CostBreakdown {
	in := costFor(inputTokens, model.InputCost)
	out := costFor(outputTokens, model.OutputCost)
	return CostBreakdown{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    in + out,
	}
}

// EstimateTokens 无供应商用量回报时的 token 估算：约 4 字节一个 token
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / 4.0))
}

// EstimateCost 查询前置检查用的保守预估：
// 按提示词估算 token 数，取输入输出单价均值结算，下限 1 额度
func (c *CostCalculator) EstimateCost(model *entity.Model, prompt string) int64 {
	tokens := EstimateTokens(prompt)
	avg := float64(model.InputCost+model.OutputCost) / 2.0
	est := int64(math.Round(float64(tokens) / 1000.0 * avg))
	if est < 1 {
		est = 1
	}
	return est
}
