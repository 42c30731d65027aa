package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/night-shade/polychat/internal/service"
)

type ChatRequest struct {
	Message       string   `json:"message" binding:"required"`
	SessionID     string   `json:"sessionId"`
	Model         string   `json:"model"`
	AttachmentIDs []string `json:"attachmentIds"`
}

type ModelInfo struct {
	Provider  string `json:"provider"`
	Variant   string `json:"variant"`
	IsDefault bool   `json:"isDefault"`
}

type UsageInfo struct {
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
	Cost             string `json:"cost"`
}

type ChatResponse struct {
	SessionID string    `json:"sessionId"`
	MessageID int64     `json:"messageId"`
	Reply     string    `json:"reply"`
	Model     ModelInfo `json:"model"`
	Usage     UsageInfo `json:"usage"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.chat.Run(c.Request.Context(), service.TurnRequest{
		SessionID:     req.SessionID,
		Message:       req.Message,
		Model:         req.Model,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, turnResponse(result))
}

// ChatStream runs the same pipeline but delivers the reply as server-sent
// events: one or more "message" events with text chunks, then a "done" event
// carrying the turn metadata.
func (h *Handler) ChatStream(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.chat.Run(c.Request.Context(), service.TurnRequest{
		SessionID:     req.SessionID,
		Message:       req.Message,
		Model:         req.Model,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for _, chunk := range chunkText(result.Reply.Content, 512) {
		c.SSEvent("message", gin.H{"delta": chunk})
		c.Writer.Flush()
	}
	c.SSEvent("done", turnResponse(result))
	c.Writer.Flush()
}

func turnResponse(result *service.TurnResult) ChatResponse {
	return ChatResponse{
		SessionID: result.Session.ID,
		MessageID: result.Reply.ID,
		Reply:     result.Reply.Content,
		Model: ModelInfo{
			Provider:  result.Spec.Provider,
			Variant:   result.Spec.Variant,
			IsDefault: result.Spec.IsDefault,
		},
		Usage: UsageInfo{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			Cost:             result.Usage.Cost.String(),
		},
		CreatedAt: result.Reply.CreatedAt,
	}
}

func chunkText(s string, size int) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/size+1)
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	return append(chunks, string(runes))
}
