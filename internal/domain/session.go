package domain

import (
	"time"
)

// Message roles. The assistant role is stored as "model" regardless of which
// provider produced the reply; provider role vocabularies are applied only
// when a request payload is built.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type ChatSession struct {
	ID            string
	Title         string
	ModelProvider string
	ModelVariant  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Message struct {
	ID            int64
	SessionID     string
	Role          string
	Content       string
	SequenceOrder int64
	ModelProvider string
	ModelVariant  string
	CreatedAt     time.Time
}
