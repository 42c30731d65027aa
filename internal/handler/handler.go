package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/night-shade/polychat/internal/domain"
	"github.com/night-shade/polychat/internal/registry"
	"github.com/night-shade/polychat/internal/repository"
	"github.com/night-shade/polychat/internal/service"
	"github.com/night-shade/polychat/internal/storage"
)

type Deps struct {
	Store    *repository.Store
	Files    *storage.FileStore
	Registry *registry.Registry
	Chat     *service.ChatService
}

type Handler struct {
	store    *repository.Store
	files    *storage.FileStore
	registry *registry.Registry
	chat     *service.ChatService
}

func New(deps Deps) *Handler {
	return &Handler{
		store:    deps.Store,
		files:    deps.Files,
		registry: deps.Registry,
		chat:     deps.Chat,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/chat/stream", h.ChatStream)
	api.POST("/attachments", h.UploadAttachment)
	api.GET("/models", h.ListModels)
	api.GET("/sessions", h.ListSessions)
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id/messages", h.SessionMessages)
	api.DELETE("/sessions/:id", h.DeleteSession)
}

// writeError maps the error taxonomy onto status codes with specific,
// user-explainable messages.
func writeError(c *gin.Context, err error) {
	var unsupported *domain.UnsupportedModelError
	var tooLarge *domain.AttachmentTooLargeError
	var unreadable *domain.AttachmentUnreadableError

	switch {
	case errors.As(err, &unsupported):
		c.JSON(http.StatusBadRequest, gin.H{"error": unsupported.Error()})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLarge.Error()})
	case errors.As(err, &unreadable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": unreadable.Error()})
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAttachmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAttachmentLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
