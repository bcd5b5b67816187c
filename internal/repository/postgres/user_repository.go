package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, first_name, username, bio, is_active, points, created_at FROM users WHERE id = $1`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) DeductPoints(ctx context.Context, userID, amount int) error {
	// Guard in the WHERE clause so the balance can never go negative under
	// concurrent deductions.
	query := `UPDATE users SET points = points - $1 WHERE id = $2 AND points >= $1`
	result, err := ext(ctx, r.db).ExecContext(ctx, query, amount, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return domain.ErrInsufficientPoints
	}
	return nil
}
