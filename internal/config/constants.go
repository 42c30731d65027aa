package config

import "time"

const (
	// Inline attachment ceiling. Larger files fail the whole request rather
	// than being silently dropped.
	MaxInlineAttachmentBytes = 20 * 1024 * 1024

	// Upload ceiling, matches the inline limit so stored files stay sendable.
	MaxUploadBytes = MaxInlineAttachmentBytes

	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Document text extraction cap, per attachment.
	ExtractionTimeout = 5 * time.Second

	// Session title length derived from the first user message.
	MaxTitleLen = 80

	// Rate limit (requests per minute per client)
	RateLimitPerMinute = 30

	// HTTP server shutdown grace period.
	ShutdownTimeout = 10 * time.Second
)
