package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/night-shade/polychat/internal/domain"
)

// AddMessage appends one turn to a session. sequence_order is assigned here,
// max+1 within the session, and is the authoritative replay order.
func (s *Store) AddMessage(ctx context.Context, sessionID, role, content, provider, variant string) (*domain.Message, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, sequence_order, model_provider, model_variant, created_at)
		 VALUES (?, ?, ?,
		         (SELECT COALESCE(MAX(sequence_order), 0) + 1 FROM messages WHERE session_id = ?),
		         ?, ?, ?)`,
		sessionID, role, content, sessionID, nullable(provider), nullable(variant), now)
	if err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT sequence_order FROM messages WHERE id = ?`, id).Scan(&seq); err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}

	return &domain.Message{
		ID:            id,
		SessionID:     sessionID,
		Role:          role,
		Content:       content,
		SequenceOrder: seq,
		ModelProvider: provider,
		ModelVariant:  variant,
		CreatedAt:     now,
	}, nil
}

// ListMessages returns a session's turns in sequence_order, ascending.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, sequence_order,
		        COALESCE(model_provider, ''), COALESCE(model_variant, ''), created_at
		 FROM messages WHERE session_id = ? ORDER BY sequence_order ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.SequenceOrder,
			&m.ModelProvider, &m.ModelVariant, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) CountMessages(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
