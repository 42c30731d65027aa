package domain

import "github.com/shopspring/decimal"

// Provider families. The set is extended by adding registry entries, never by
// touching selection logic.
const (
	ProviderGemini = "gemini"
	ProviderGPT    = "gpt"
	ProviderClaude = "claude"
)

// Cost tiers, descriptive only.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// ModelSpec is a resolved (provider, variant) pair. Computed fresh per request;
// only the provider and variant strings are ever persisted.
type ModelSpec struct {
	Provider  string
	Variant   string
	IsDefault bool
}

// ModelVariant describes one entry of a provider's variant table.
type ModelVariant struct {
	Name            string
	CostTier        string
	Capabilities    []string
	PromptPrice     decimal.Decimal // USD per 1M tokens
	CompletionPrice decimal.Decimal // USD per 1M tokens
}

func (v *ModelVariant) HasCapability(cap string) bool {
	for _, c := range v.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// Usage is the token accounting a provider reports for one completed turn.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	Cost             decimal.Decimal
}
