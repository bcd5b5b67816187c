package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) GetOrCreate(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	// Ensure user1_id < user2_id for constraint
	user1ID, user2ID := domain.NormalizePair(match.User1ID, match.User2ID)

	e := ext(ctx, r.db)

	var created domain.Match
	query := `
		INSERT INTO matches (user1_id, user2_id, group_id, score, common_questions)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, user1_id, user2_id, group_id, score, common_questions, created_at
	`
	err := sqlx.GetContext(ctx, e, &created, query,
		user1ID, user2ID, match.GroupID, match.Score, match.CommonQuestions)
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Conflict: an earlier row exists for the pair and wins unchanged.
	var existing domain.Match
	query = `SELECT * FROM matches WHERE user1_id = $1 AND user2_id = $2`
	if err := sqlx.GetContext(ctx, e, &existing, query, user1ID, user2ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &existing, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE id = $1`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &match, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error) {
	user1ID, user2ID = domain.NormalizePair(user1ID, user2ID)

	var match domain.Match
	query := `SELECT * FROM matches WHERE user1_id = $1 AND user2_id = $2`
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &match, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetMatchesForUser(ctx context.Context, userID int) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT * FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &matches, query, userID)
	return matches, err
}
