package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"llm-credits-api/internal/domain/entity"
)

func TestCostCalculator_Calculate(t *testing.T) {
	calc := NewCostCalculator()

	t.Run("按千 token 单价分别结算并求和", func(t *testing.T) {
		model := &entity.Model{InputCost: 150, OutputCost: 200}
		got := calc.Calculate(model, 100, 50)
		assert.Equal(t, int64(15), got.InputCost)
		assert.Equal(t, int64(10), got.OutputCost)
		assert.Equal(t, int64(25), got.TotalCost)
	})

	t.Run("不足半个额度向下取整", func(t *testing.T) {
		model := &entity.Model{InputCost: 1, OutputCost: 1}
		got := calc.Calculate(model, 400, 0)
		assert.Equal(t, int64(0), got.InputCost)
	})

	t.Run("半个额度四舍五入进位", func(t *testing.T) {
		model := &entity.Model{InputCost: 1, OutputCost: 1}
		got := calc.Calculate(model, 500, 0)
		assert.Equal(t, int64(1), got.InputCost)
	})

	t.Run("零用量结算为零", func(t *testing.T) {
		model := &entity.Model{InputCost: 150, OutputCost: 200}
		got := calc.Calculate(model, 0, 0)
		assert.Equal(t, int64(0), got.TotalCost)
	})
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}

func TestCostCalculator_EstimateCost(t *testing.T) {
	calc := NewCostCalculator()

	t.Run("短提示词至少预估一个额度", func(t *testing.T) {
		model := &entity.Model{InputCost: 1, OutputCost: 1}
		assert.Equal(t, int64(1), calc.EstimateCost(model, "hi"))
	})

	t.Run("按单价均值预估", func(t *testing.T) {
		model := &entity.Model{InputCost: 150, OutputCost: 200}
		// 400 字节 = 100 token, 均价 175/1000 => 17.5 => 18
		got := calc.EstimateCost(model, strings.Repeat("a", 400))
		assert.Equal(t, int64(18), got)
	})
}
