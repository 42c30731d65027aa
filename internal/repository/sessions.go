package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/night-shade/polychat/internal/domain"
)

// Store wraps the sqlite handle with named query methods.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, title string) (*domain.ChatSession, error) {
	now := time.Now().UTC()
	session := &domain.ChatSession{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, COALESCE(model_provider, ''), COALESCE(model_variant, ''), created_at, updated_at
		 FROM chat_sessions WHERE id = ?`, id)

	var session domain.ChatSession
	err := row.Scan(&session.ID, &session.Title, &session.ModelProvider, &session.ModelVariant,
		&session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (s *Store) ListSessions(ctx context.Context, limit, offset int) ([]domain.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, COALESCE(model_provider, ''), COALESCE(model_variant, ''), created_at, updated_at
		 FROM chat_sessions ORDER BY updated_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.ChatSession{}
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(&session.ID, &session.Title, &session.ModelProvider, &session.ModelVariant,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SetSessionModel records which provider/variant answered the session's last
// turn; the selector reads it back for continuity.
func (s *Store) SetSessionModel(ctx context.Context, id, provider, variant string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET model_provider = ?, model_variant = ?, updated_at = ? WHERE id = ?`,
		provider, variant, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set session model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
