package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrAttachmentLinked    = errors.New("attachment already linked to a message")
	ErrProviderUnavailable = errors.New("provider request failed")
)

// UnsupportedModelError signals that an explicitly requested model identifier
// does not resolve in the registry. Never substituted silently.
type UnsupportedModelError struct {
	Identifier string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model %q", e.Identifier)
}

// AttachmentTooLargeError aborts normalization when a single attachment
// exceeds the inlining ceiling.
type AttachmentTooLargeError struct {
	FileName  string
	SizeBytes int64
	Limit     int64
}

func (e *AttachmentTooLargeError) Error() string {
	return fmt.Sprintf("attachment %q is %d bytes, over the %d byte inline limit", e.FileName, e.SizeBytes, e.Limit)
}

// AttachmentUnreadableError aborts normalization when an attachment's file is
// missing or unreadable on disk. Distinct from size violations so callers can
// explain "deleted or moved" rather than "too big".
type AttachmentUnreadableError struct {
	FileName string
	Path     string
	Err      error
}

func (e *AttachmentUnreadableError) Error() string {
	return fmt.Sprintf("attachment %q unreadable at %s: %v", e.FileName, e.Path, e.Err)
}

func (e *AttachmentUnreadableError) Unwrap() error { return e.Err }
