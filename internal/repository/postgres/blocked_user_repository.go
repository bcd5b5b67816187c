package postgres

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type blockedUserRepository struct {
	db *sqlx.DB
}

func NewBlockedUserRepository(db *sqlx.DB) repository.BlockedUserRepository {
	return &blockedUserRepository{db: db}
}

func (r *blockedUserRepository) Block(ctx context.Context, blockerID, blockedID int) error {
	query := `
		INSERT INTO blocked_users (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	_, err := ext(ctx, r.db).ExecContext(ctx, query, blockerID, blockedID)
	return err
}

func (r *blockedUserRepository) Unblock(ctx context.Context, blockerID, blockedID int) error {
	query := `DELETE FROM blocked_users WHERE blocker_id = $1 AND blocked_id = $2`
	_, err := ext(ctx, r.db).ExecContext(ctx, query, blockerID, blockedID)
	return err
}

func (r *blockedUserRepository) IsBlockedEither(ctx context.Context, userA, userB int) (bool, error) {
	var blocked bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocked_users
			WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &blocked, query, userA, userB)
	return blocked, err
}
