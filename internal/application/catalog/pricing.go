package catalog

import (
	"strings"

	"llm-credits-api/internal/domain/entity"
)

// familyPrice 每 1000 token 的定价，定点单位（×100000 货币单位）
type familyPrice struct {
	prefix string
	input  int64
	output int64
}

// defaultPricing 按模型族的默认定价表，同步新模型时套用
// 前缀从长到短匹配，未命中时取供应商兜底价
var defaultPricing = map[entity.Provider][]familyPrice{
	entity.ProviderOpenAI: {
		{prefix: "gpt-4o-mini", input: 15, output: 60},
		{prefix: "gpt-4o", input: 250, output: 1000},
		{prefix: "gpt-4-turbo", input: 1000, output: 3000},
		{prefix: "gpt-4", input: 3000, output: 6000},
		{prefix: "gpt-3.5-turbo", input: 50, output: 150},
	},
	entity.ProviderAnthropic: {
		{prefix: "claude-opus", input: 1500, output: 7500},
		{prefix: "claude-sonnet", input: 300, output: 1500},
		{prefix: "claude-haiku", input: 100, output: 500},
		{prefix: "claude-3-opus", input: 1500, output: 7500},
		{prefix: "claude-3-5-sonnet", input: 300, output: 1500},
		{prefix: "claude-3-5-haiku", input: 100, output: 500},
		{prefix: "claude", input: 300, output: 1500},
	},
	entity.ProviderPalm: {
		{prefix: "gemini-1.5-pro", input: 125, output: 500},
		{prefix: "gemini-1.5-flash", input: 8, output: 30},
		{prefix: "gemini-pro", input: 50, output: 150},
		{prefix: "gemini", input: 50, output: 150},
	},
}

// 供应商兜底价，未知模型按保守价计费
var fallbackPricing = map[entity.Provider]familyPrice{
	entity.ProviderOpenAI:    {input: 100, output: 300},
	entity.ProviderAnthropic: {input: 300, output: 1500},
	entity.ProviderPalm:      {input: 50, output: 150},
}

// priceFor 返回模型的默认定价
func priceFor(provider entity.Provider, providerID string) (input, output int64) {
	id := strings.ToLower(providerID)
	for _, fp := range defaultPricing[provider] {
		if strings.HasPrefix(id, fp.prefix) {
			return fp.input, fp.output
		}
	}
	fb := fallbackPricing[provider]
	return fb.input, fb.output
}
