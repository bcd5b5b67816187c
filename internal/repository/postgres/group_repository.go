package postgres

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetOtherActiveMembers(ctx context.Context, groupID, excludingUserID int) ([]int, error) {
	var ids []int
	// Ordered by user id so equal-score candidates resolve deterministically.
	query := `
		SELECT gm.user_id
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1 AND gm.user_id <> $2 AND u.is_active
		ORDER BY gm.user_id
	`
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &ids, query, groupID, excludingUserID)
	return ids, err
}
