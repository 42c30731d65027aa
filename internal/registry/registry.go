// Package registry holds the static catalog of provider families and their
// model variants. The catalog is immutable process-wide state, safe for
// unsynchronized concurrent reads.
package registry

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/night-shade/polychat/internal/domain"
)

// DefaultProvider is the hard fallback when nothing else decides a model.
const DefaultProvider = domain.ProviderGemini

type Family struct {
	Name           string
	DefaultVariant string
	Variants       []domain.ModelVariant
}

type Registry struct {
	families []Family
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// New returns the built-in catalog. Extending the model set means adding an
// entry here, not touching selection logic.
func New() *Registry {
	return &Registry{families: []Family{
		{
			Name:           domain.ProviderGemini,
			DefaultVariant: "gemini-2.0-flash",
			Variants: []domain.ModelVariant{
				{
					Name:            "gemini-2.0-flash",
					CostTier:        domain.TierLow,
					Capabilities:    []string{"vision", "multimodal"},
					PromptPrice:     price("0.10"),
					CompletionPrice: price("0.40"),
				},
				{
					Name:            "gemini-1.5-pro",
					CostTier:        domain.TierHigh,
					Capabilities:    []string{"vision", "multimodal", "reasoning"},
					PromptPrice:     price("1.25"),
					CompletionPrice: price("5.00"),
				},
				{
					Name:            "gemini-1.5-flash",
					CostTier:        domain.TierLow,
					Capabilities:    []string{"vision", "multimodal"},
					PromptPrice:     price("0.075"),
					CompletionPrice: price("0.30"),
				},
			},
		},
		{
			Name:           domain.ProviderGPT,
			DefaultVariant: "gpt-4o-mini",
			Variants: []domain.ModelVariant{
				{
					Name:            "gpt-4o",
					CostTier:        domain.TierHigh,
					Capabilities:    []string{"vision", "multimodal"},
					PromptPrice:     price("2.50"),
					CompletionPrice: price("10.00"),
				},
				{
					Name:            "gpt-4o-mini",
					CostTier:        domain.TierLow,
					Capabilities:    []string{"vision", "multimodal"},
					PromptPrice:     price("0.15"),
					CompletionPrice: price("0.60"),
				},
				{
					Name:            "gpt-4-turbo",
					CostTier:        domain.TierMedium,
					Capabilities:    []string{"vision", "reasoning"},
					PromptPrice:     price("10.00"),
					CompletionPrice: price("30.00"),
				},
			},
		},
		{
			Name:           domain.ProviderClaude,
			DefaultVariant: "claude-3-5-sonnet",
			Variants: []domain.ModelVariant{
				{
					Name:            "claude-3-5-sonnet",
					CostTier:        domain.TierMedium,
					Capabilities:    []string{"vision", "multimodal", "reasoning"},
					PromptPrice:     price("3.00"),
					CompletionPrice: price("15.00"),
				},
				{
					Name:            "claude-3-opus",
					CostTier:        domain.TierHigh,
					Capabilities:    []string{"vision", "reasoning"},
					PromptPrice:     price("15.00"),
					CompletionPrice: price("75.00"),
				},
				{
					Name:            "claude-3-haiku",
					CostTier:        domain.TierLow,
					Capabilities:    []string{"vision"},
					PromptPrice:     price("0.25"),
					CompletionPrice: price("1.25"),
				},
			},
		},
	}}
}

// Resolve maps a free-form model identifier onto a (provider, variant) pair.
// A provider family name yields that family's default variant; otherwise every
// variant table is scanned for an exact (case-folded) match. Returns nil when
// nothing matches: callers must treat that as a hard error, never substitute.
func (r *Registry) Resolve(identifier string) *domain.ModelSpec {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return nil
	}
	for _, f := range r.families {
		if f.Name == id {
			return &domain.ModelSpec{Provider: f.Name, Variant: f.DefaultVariant, IsDefault: true}
		}
	}
	for _, f := range r.families {
		for _, v := range f.Variants {
			if strings.ToLower(v.Name) == id {
				return &domain.ModelSpec{Provider: f.Name, Variant: v.Name}
			}
		}
	}
	return nil
}

// Default returns the default variant of the given provider family, or nil
// when the family is unknown.
func (r *Registry) Default(provider string) *domain.ModelSpec {
	p := strings.ToLower(strings.TrimSpace(provider))
	for _, f := range r.families {
		if f.Name == p {
			return &domain.ModelSpec{Provider: f.Name, Variant: f.DefaultVariant, IsDefault: true}
		}
	}
	return nil
}

// Variant returns the variant definition backing a resolved spec.
func (r *Registry) Variant(spec domain.ModelSpec) *domain.ModelVariant {
	for _, f := range r.families {
		if f.Name != spec.Provider {
			continue
		}
		for i := range f.Variants {
			if strings.EqualFold(f.Variants[i].Name, spec.Variant) {
				return &f.Variants[i]
			}
		}
	}
	return nil
}

// Catalog returns the full family list for the models endpoint.
func (r *Registry) Catalog() []Family {
	return r.families
}

var tokensPerPrice = decimal.NewFromInt(1_000_000)

// Cost prices one completed turn against the variant's per-1M-token rates.
// Unknown variants cost zero.
func (r *Registry) Cost(spec domain.ModelSpec, promptTokens, completionTokens int) decimal.Decimal {
	v := r.Variant(spec)
	if v == nil {
		return decimal.Zero
	}
	prompt := v.PromptPrice.Mul(decimal.NewFromInt(int64(promptTokens))).Div(tokensPerPrice)
	completion := v.CompletionPrice.Mul(decimal.NewFromInt(int64(completionTokens))).Div(tokensPerPrice)
	return prompt.Add(completion)
}
