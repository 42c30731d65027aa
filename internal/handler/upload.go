package handler

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/night-shade/polychat/internal/config"
)

const maxFilenameLen = 255

type AttachmentResponse struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
}

// truncateFileName keeps the trailing maxLen bytes of name, dropping whole
// runes from the front so a multi-byte character is never cut in half. The
// tail is kept because it carries the extension.
func truncateFileName(name string, maxLen int) string {
	for len(name) > maxLen {
		_, size := utf8.DecodeRuneInString(name)
		name = name[size:]
	}
	return name
}

// UploadAttachment handles POST /api/attachments with multipart/form-data
// (session_id, file). The attachment stays unbound until the chat turn that
// references it persists its user message.
func (h *Handler) UploadAttachment(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
		return
	}
	if _, err := h.store.GetSession(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	if header.Size < 0 || header.Size > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 20MB upload limit"})
		return
	}

	// Path traversal protection: only the base name is kept.
	fileName := filepath.Base(strings.TrimSpace(header.Filename))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		fileName = "file"
	}
	fileName = truncateFileName(fileName, maxFilenameLen)

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(fileName))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	path, size, err := h.files.Save(fileName, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	att, err := h.store.CreateAttachment(c.Request.Context(), sessionID, fileName, mimeType, size, path)
	if err != nil {
		h.files.Remove(path)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AttachmentResponse{
		ID:            att.ID,
		SessionID:     att.SessionID,
		FileName:      att.FileName,
		MimeType:      att.MimeType,
		FileSizeBytes: att.FileSizeBytes,
		Category:      att.Category(),
		CreatedAt:     att.CreatedAt,
	})
}
