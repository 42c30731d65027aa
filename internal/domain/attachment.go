package domain

import (
	"strings"
	"time"
)

// Attachment categories derived from the stored mime type.
const (
	CategoryImage    = "image"
	CategoryDocument = "document"
	CategoryAudio    = "audio"
	CategoryVideo    = "video"
	CategoryOther    = "other"
)

type Attachment struct {
	ID            string
	SessionID     string
	MessageID     *int64 // nil until the owning user message is persisted
	FileName      string
	MimeType      string
	FileSizeBytes int64
	FilePath      string
	CreatedAt     time.Time
}

// Category maps the attachment's mime type onto the coarse categories the
// normalizer dispatches on.
func (a *Attachment) Category() string {
	mime := strings.ToLower(a.MimeType)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return CategoryImage
	case strings.HasPrefix(mime, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mime, "text/"),
		mime == "application/json",
		mime == "application/pdf",
		mime == "application/msword",
		strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument"):
		return CategoryDocument
	default:
		return CategoryOther
	}
}
