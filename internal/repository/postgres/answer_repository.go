package postgres

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type answerRepository struct {
	db *sqlx.DB
}

func NewAnswerRepository(db *sqlx.DB) repository.AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) GetGroupAnswers(ctx context.Context, userID, groupID int) (domain.AnswerSet, error) {
	var rows []domain.Answer
	// Skips (value = 0) carry no signal and are excluded from scoring.
	query := `
		SELECT a.user_id, a.question_id, a.value, COALESCE(q.category, '') AS category
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.user_id = $1 AND q.group_id = $2 AND a.value <> 0
	`
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, userID, groupID); err != nil {
		return nil, err
	}

	answers := make(domain.AnswerSet, len(rows))
	for _, a := range rows {
		answers[a.QuestionID] = a
	}
	return answers, nil
}
