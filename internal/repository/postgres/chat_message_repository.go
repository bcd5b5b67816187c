package postgres

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type chatMessageRepository struct {
	db *sqlx.DB
}

func NewChatMessageRepository(db *sqlx.DB) repository.ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (chat_session_id, sender_id, content_type, text_content, file_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := ext(ctx, r.db).QueryRowxContext(ctx, query,
		msg.SessionID, msg.SenderID, msg.ContentType, msg.TextContent, msg.FileID)
	return row.Scan(&msg.ID, &msg.CreatedAt)
}

func (r *chatMessageRepository) ListBySession(ctx context.Context, sessionID, limit, beforeID int) ([]*domain.ChatMessage, error) {
	var messages []*domain.ChatMessage
	query := `
		SELECT * FROM chat_messages
		WHERE chat_session_id = $1 AND ($3 = 0 OR id < $3)
		ORDER BY id DESC
		LIMIT $2
	`
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &messages, query, sessionID, limit, beforeID)
	return messages, err
}

func (r *chatMessageRepository) MarkRead(ctx context.Context, sessionID, readerID int) error {
	// Only the partner's unread messages; ReadAt is the single mutable column.
	query := `
		UPDATE chat_messages SET read_at = NOW()
		WHERE chat_session_id = $1 AND sender_id <> $2 AND read_at IS NULL
	`
	_, err := ext(ctx, r.db).ExecContext(ctx, query, sessionID, readerID)
	return err
}

func (r *chatMessageRepository) CountUnread(ctx context.Context, sessionID, readerID int) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM chat_messages
		WHERE chat_session_id = $1 AND sender_id <> $2 AND read_at IS NULL
	`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &count, query, sessionID, readerID)
	return count, err
}
