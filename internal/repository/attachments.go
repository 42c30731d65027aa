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

func (s *Store) CreateAttachment(ctx context.Context, sessionID, fileName, mimeType string, sizeBytes int64, filePath string) (*domain.Attachment, error) {
	att := &domain.Attachment{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		FileName:      fileName,
		MimeType:      mimeType,
		FileSizeBytes: sizeBytes,
		FilePath:      filePath,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (id, session_id, file_name, mime_type, file_size_bytes, file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		att.ID, att.SessionID, att.FileName, att.MimeType, att.FileSizeBytes, att.FilePath, att.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return att, nil
}

func (s *Store) GetAttachment(ctx context.Context, id string) (*domain.Attachment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, message_id, file_name, mime_type, file_size_bytes, file_path, created_at
		 FROM attachments WHERE id = ?`, id)

	var att domain.Attachment
	var messageID sql.NullInt64
	err := row.Scan(&att.ID, &att.SessionID, &messageID, &att.FileName, &att.MimeType,
		&att.FileSizeBytes, &att.FilePath, &att.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAttachmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	if messageID.Valid {
		att.MessageID = &messageID.Int64
	}
	return &att, nil
}

// LinkAttachment binds an attachment to the user message it belongs to. The
// link is set at most once; a second attempt fails.
func (s *Store) LinkAttachment(ctx context.Context, id string, messageID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET message_id = ? WHERE id = ? AND message_id IS NULL`,
		messageID, id)
	if err != nil {
		return fmt.Errorf("link attachment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link attachment: %w", err)
	}
	if n == 0 {
		if _, getErr := s.GetAttachment(ctx, id); getErr != nil {
			return getErr
		}
		return domain.ErrAttachmentLinked
	}
	return nil
}

func (s *Store) ListAttachmentsByMessage(ctx context.Context, messageID int64) ([]domain.Attachment, error) {
	return s.listAttachments(ctx,
		`SELECT id, session_id, message_id, file_name, mime_type, file_size_bytes, file_path, created_at
		 FROM attachments WHERE message_id = ? ORDER BY created_at ASC`, messageID)
}

func (s *Store) ListAttachmentsBySession(ctx context.Context, sessionID string) ([]domain.Attachment, error) {
	return s.listAttachments(ctx,
		`SELECT id, session_id, message_id, file_name, mime_type, file_size_bytes, file_path, created_at
		 FROM attachments WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
}

func (s *Store) listAttachments(ctx context.Context, query string, arg any) ([]domain.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	atts := []domain.Attachment{}
	for rows.Next() {
		var att domain.Attachment
		var messageID sql.NullInt64
		if err := rows.Scan(&att.ID, &att.SessionID, &messageID, &att.FileName, &att.MimeType,
			&att.FileSizeBytes, &att.FilePath, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		if messageID.Valid {
			att.MessageID = &messageID.Int64
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
