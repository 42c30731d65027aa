package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/night-shade/polychat/internal/domain"
)

type SessionResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ModelProvider string    `json:"modelProvider,omitempty"`
	ModelVariant  string    `json:"modelVariant,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type MessageResponse struct {
	ID            int64     `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	SequenceOrder int64     `json:"sequenceOrder"`
	ModelProvider string    `json:"modelProvider,omitempty"`
	ModelVariant  string    `json:"modelVariant,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *Handler) ListSessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse(&s))
	}
	c.JSON(http.StatusOK, out)
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" {
		req.Title = "New chat"
	}

	session, err := h.store.CreateSession(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (h *Handler) SessionMessages(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.store.GetSession(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:            m.ID,
			Role:          m.Role,
			Content:       m.Content,
			SequenceOrder: m.SequenceOrder,
			ModelProvider: m.ModelProvider,
			ModelVariant:  m.ModelVariant,
			CreatedAt:     m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.store.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionResponse(s *domain.ChatSession) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		Title:         s.Title,
		ModelProvider: s.ModelProvider,
		ModelVariant:  s.ModelVariant,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
