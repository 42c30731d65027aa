package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type VariantResponse struct {
	Name            string   `json:"name"`
	CostTier        string   `json:"costTier"`
	Capabilities    []string `json:"capabilities"`
	PromptPrice     string   `json:"promptPricePer1M"`
	CompletionPrice string   `json:"completionPricePer1M"`
	IsDefault       bool     `json:"isDefault"`
}

type FamilyResponse struct {
	Provider string            `json:"provider"`
	Variants []VariantResponse `json:"variants"`
}

func (h *Handler) ListModels(c *gin.Context) {
	families := h.registry.Catalog()
	out := make([]FamilyResponse, 0, len(families))
	for _, f := range families {
		variants := make([]VariantResponse, 0, len(f.Variants))
		for _, v := range f.Variants {
			variants = append(variants, VariantResponse{
				Name:            v.Name,
				CostTier:        v.CostTier,
				Capabilities:    v.Capabilities,
				PromptPrice:     v.PromptPrice.String(),
				CompletionPrice: v.CompletionPrice.String(),
				IsDefault:       v.Name == f.DefaultVariant,
			})
		}
		out = append(out, FamilyResponse{Provider: f.Name, Variants: variants})
	}
	c.JSON(http.StatusOK, out)
}
