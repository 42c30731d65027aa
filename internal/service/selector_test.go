package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/night-shade/polychat/internal/config"
	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/registry"
)

func newSelector(continuity string) *Selector {
	return NewSelector(registry.New(), continuity)
}

func TestSelect_ExplicitWinsOverEverything(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	// Conflicting inputs: prior provider claude, vision-heavy text.
	spec, err := s.Select("gpt-4o", "claude", "claude-3-opus", "look at this picture and screenshot")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGPT, spec.Provider)
	assert.Equal(t, "gpt-4o", spec.Variant)
	assert.False(t, spec.IsDefault)
}

func TestSelect_ExplicitUnresolvedIsFatal(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	spec, err := s.Select("gpt-9000", "gemini", "", "hello")
	require.Error(t, err)
	assert.Nil(t, spec)

	var unsupported *domain.UnsupportedModelError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "gpt-9000", unsupported.Identifier)
}

func TestSelect_SessionContinuityProviderLevel(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	// Prior variant is the expensive one; provider-level continuity degrades
	// to the family default.
	spec, err := s.Select("", "claude", "claude-3-opus", "write some code for me")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderClaude, spec.Provider)
	assert.Equal(t, "claude-3-5-sonnet", spec.Variant)
	assert.True(t, spec.IsDefault)
}

func TestSelect_SessionContinuityFull(t *testing.T) {
	s := newSelector(config.ContinuityFull)

	spec, err := s.Select("", "claude", "claude-3-opus", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderClaude, spec.Provider)
	assert.Equal(t, "claude-3-opus", spec.Variant)
}

func TestSelect_FullContinuityFallsBackWhenVariantGone(t *testing.T) {
	s := newSelector(config.ContinuityFull)

	spec, err := s.Select("", "claude", "claude-2-retired", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderClaude, spec.Provider)
	assert.Equal(t, "claude-3-5-sonnet", spec.Variant)
}

func TestSelect_UnknownPriorProviderFallsThrough(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	spec, err := s.Select("", "mistral", "", "plain question")
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultProvider, spec.Provider)
}

func TestSelect_ContentHeuristic(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	tests := []struct {
		name     string
		text     string
		provider string
	}{
		{"vision english", "can you describe this image for me", domain.ProviderGemini},
		{"vision chinese", "帮我看看这张图片", domain.ProviderGemini},
		{"code english", "debug this function please", domain.ProviderGPT},
		{"code chinese", "这段代码报错了", domain.ProviderGPT},
		{"no keywords", "what is the weather like", registry.DefaultProvider},
		{"tie falls through", "write code to resize an image", registry.DefaultProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := s.Select("", "", "", tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, spec.Provider)
			assert.True(t, spec.IsDefault)
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	s := newSelector(config.ContinuityProvider)

	first, err := s.Select("", "gpt", "", "anything")
	require.NoError(t, err)
	for range 10 {
		again, err := s.Select("", "gpt", "", "anything")
		require.NoError(t, err)
		assert.Equal(t, *first, *again)
	}
}
