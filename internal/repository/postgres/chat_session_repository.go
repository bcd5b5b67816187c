package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type chatSessionRepository struct {
	db *sqlx.DB
}

func NewChatSessionRepository(db *sqlx.DB) repository.ChatSessionRepository {
	return &chatSessionRepository{db: db}
}

func (r *chatSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	// The partial unique index on the normalized pair admits one open session.
	// Losing a concurrent insert means the pair already has one; adopt it.
	query := `
		INSERT INTO anonymous_chat_sessions (session_id, initiator_id, recipient_id, match_id, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (LEAST(initiator_id, recipient_id), GREATEST(initiator_id, recipient_id))
			WHERE status <> 'ended'
			DO NOTHING
		RETURNING id, created_at, last_activity
	`
	row := ext(ctx, r.db).QueryRowxContext(ctx, query,
		session.SessionID, session.InitiatorID, session.RecipientID, session.MatchID, session.Status)
	err := row.Scan(&session.ID, &session.CreatedAt, &session.LastActivity)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	for _, status := range []domain.SessionStatus{domain.SessionActive, domain.SessionPending} {
		existing, err := r.GetByUsersAndStatus(ctx, session.InitiatorID, session.RecipientID, status)
		if err == nil {
			*session = *existing
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
	}
	return domain.ErrSessionNotFound
}

func (r *chatSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	var session domain.ChatSession
	query := `SELECT * FROM anonymous_chat_sessions WHERE session_id = $1`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &session, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *chatSessionRepository) GetByUsersAndStatus(ctx context.Context, userA, userB int, status domain.SessionStatus) (*domain.ChatSession, error) {
	var session domain.ChatSession
	// Participant columns are directional (initiator/recipient), so match the
	// pair both ways.
	query := `
		SELECT * FROM anonymous_chat_sessions
		WHERE ((initiator_id = $1 AND recipient_id = $2) OR (initiator_id = $2 AND recipient_id = $1))
		  AND status = $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &session, query, userA, userB, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *chatSessionRepository) GetActiveForUser(ctx context.Context, userID int) ([]*domain.ChatSession, error) {
	var sessions []*domain.ChatSession
	query := `
		SELECT * FROM anonymous_chat_sessions
		WHERE (initiator_id = $1 OR recipient_id = $1) AND status = $2
		ORDER BY last_activity DESC
	`
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &sessions, query, userID, domain.SessionActive)
	return sessions, err
}

func (r *chatSessionRepository) UpdateStatus(ctx context.Context, id int, status domain.SessionStatus, endedAt *time.Time) error {
	query := `UPDATE anonymous_chat_sessions SET status = $1, ended_at = COALESCE($2, ended_at) WHERE id = $3`
	result, err := ext(ctx, r.db).ExecContext(ctx, query, status, endedAt, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *chatSessionRepository) UpdateStatusFrom(ctx context.Context, id int, from, to domain.SessionStatus, endedAt *time.Time) (bool, error) {
	// The status guard lives in the WHERE clause: a concurrent writer from the
	// other process loses or wins atomically, never interleaves.
	query := `
		UPDATE anonymous_chat_sessions
		SET status = $1, ended_at = COALESCE($2, ended_at)
		WHERE id = $3 AND status = $4
	`
	result, err := ext(ctx, r.db).ExecContext(ctx, query, to, endedAt, id, from)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *chatSessionRepository) TouchActivity(ctx context.Context, id int) error {
	query := `UPDATE anonymous_chat_sessions SET last_activity = NOW() WHERE id = $1`
	_, err := ext(ctx, r.db).ExecContext(ctx, query, id)
	return err
}
