package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/models"
	"github.com/vytor/techquiz/internal/repository"
)

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) RandomSet(ctx context.Context, limit int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("selecting random question set: limit=%d", limit)

	query, args, err := sqlBuilder.Select("id", "prompt").
		From("questions").
		OrderBy("RANDOM()").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	index := map[string]int{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Prompt); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	ids := make([]string, len(out))
	for i, q := range out {
		ids[i] = q.ID
	}
	if err := r.loadAnswers(ctx, out, index, ids); err != nil {
		log.Error("failed to load answers: %v", err)
		return nil, err
	}

	log.Debug("selected %d questions", len(out))
	return out, nil
}

func (r *questionRepository) loadAnswers(ctx context.Context, out []models.Question, index map[string]int, ids []string) error {
	query, args, err := sqlBuilder.Select("question_id", "text", "is_correct").
		From("answers").
		Where(squirrel.Eq{"question_id": ids}).
		OrderBy("question_id", "position").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var questionID string
		var a models.Answer
		if err := rows.Scan(&questionID, &a.Text, &a.IsCorrect); err != nil {
			return err
		}
		i, ok := index[questionID]
		if !ok {
			return fmt.Errorf("answer for unselected question %s", questionID)
		}
		out[i].Answers = append(out[i].Answers, a)
	}
	return rows.Err()
}

func (r *questionRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("questions").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("question_repo").Error("failed to count questions: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *questionRepository) InsertBatch(ctx context.Context, questions []models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("inserting %d questions", len(questions))

	if len(questions) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, q := range questions {
			if _, err := sqlBuilder.Insert("questions").
				Columns("id", "prompt").
				Values(q.ID, q.Prompt).
				RunWith(tx).
				ExecContext(ctx); err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
			if len(q.Answers) == 0 {
				continue
			}

			answers := sqlBuilder.Insert("answers").Columns("question_id", "position", "text", "is_correct")
			for pos, a := range q.Answers {
				answers = answers.Values(q.ID, pos, a.Text, a.IsCorrect)
			}
			if _, err := answers.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("insert answers for %s: %w", q.ID, err)
			}
		}
		return nil
	})
}
