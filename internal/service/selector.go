package service

import (
	"strings"

	"github.com/night-shade/polychat/internal/config"
	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/registry"
)

// Keyword tables for the content heuristic. Data, not logic: deployments
// extend these without touching precedence. English and Chinese terms are
// both carried because the product shipped with a Chinese-only table.
var (
	visionKeywords = []string{
		"image", "picture", "photo", "screenshot", "diagram", "chart",
		"图片", "照片", "截图", "识图", "看图",
	}
	codeKeywords = []string{
		"code", "function", "debug", "compile", "refactor", "regex", "sql", "stack trace",
		"代码", "编程", "函数", "报错", "调试",
	}
)

// Selector decides which model governs a chat turn. Stateless and
// deterministic: the same inputs always yield the same spec.
type Selector struct {
	registry   *registry.Registry
	continuity string
}

func NewSelector(reg *registry.Registry, continuity string) *Selector {
	return &Selector{registry: reg, continuity: continuity}
}

// Select applies the precedence order, stopping at the first rule that yields
// a result:
//
//  1. explicit request - resolution failure is fatal, never substituted
//  2. session continuity - the session's prior provider (variant too, when
//     continuity is "full" and the variant still resolves)
//  3. content heuristic - vision keywords prefer gemini, code keywords prefer
//     gpt; a tie or no match falls through
//  4. the registry's global default provider
func (s *Selector) Select(explicitModel, priorProvider, priorVariant, messageText string) (*domain.ModelSpec, error) {
	if explicitModel != "" {
		spec := s.registry.Resolve(explicitModel)
		if spec == nil {
			return nil, &domain.UnsupportedModelError{Identifier: explicitModel}
		}
		return spec, nil
	}

	if priorProvider != "" {
		if s.continuity == config.ContinuityFull && priorVariant != "" {
			if spec := s.registry.Resolve(priorVariant); spec != nil && spec.Provider == strings.ToLower(priorProvider) {
				return spec, nil
			}
		}
		if spec := s.registry.Default(priorProvider); spec != nil {
			return spec, nil
		}
		// Recorded provider no longer in the catalog: fall through.
	}

	if p := heuristicProvider(messageText); p != "" {
		if spec := s.registry.Default(p); spec != nil {
			return spec, nil
		}
	}

	return s.registry.Default(registry.DefaultProvider), nil
}

// heuristicProvider is best effort: it only answers when exactly one keyword
// family matches.
func heuristicProvider(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	vision := containsAny(lower, visionKeywords)
	code := containsAny(lower, codeKeywords)
	switch {
	case vision && !code:
		return domain.ProviderGemini
	case code && !vision:
		return domain.ProviderGPT
	default:
		return ""
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
