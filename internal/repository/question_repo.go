package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"millionaire/internal/database"
	"millionaire/internal/models"
)

// QuestionRepository is the question catalog. Games only read from it.
type QuestionRepository struct {
	db *database.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = "id, level, text, answer1, answer2, answer3, answer4, created_at, updated_at"

// CreateQuestion validates and inserts a question, setting its ID
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	return r.insertQuestion(ctx, r.db, q)
}

// CreateQuestions inserts all questions in a single transaction
func (r *QuestionRepository) CreateQuestions(ctx context.Context, questions []*models.Question) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, q := range questions {
		if err := r.insertQuestion(ctx, tx, q); err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(questions), nil
}

func (r *QuestionRepository) insertQuestion(ctx context.Context, exec database.DBTX, q *models.Question) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO questions (level, text, answer1, answer2, answer3, answer4, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := exec.ExecReturningID(ctx, query, q.Level, q.Text, q.Answer1, q.Answer2, q.Answer3, q.Answer4, now, now)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	q.ID = id
	q.CreatedAt = now
	q.UpdatedAt = now
	return nil
}

// CountQuestions returns the size of the catalog
func (r *QuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// CountQuestionsAtLevel returns how many questions exist for level
func (r *QuestionRepository) CountQuestionsAtLevel(ctx context.Context, level int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE level = ?", level).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions at level %d: %w", level, err)
	}
	return count, nil
}

// CountByLevel returns the number of questions for every level that has any
func (r *QuestionRepository) CountByLevel(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT level, COUNT(*) FROM questions GROUP BY level")
	if err != nil {
		return nil, fmt.Errorf("failed to count questions by level: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		counts[level] = count
	}
	return counts, rows.Err()
}

// QuestionAtLevel returns the question at position offset among level's questions ordered by ID
func (r *QuestionRepository) QuestionAtLevel(ctx context.Context, level, offset int) (*models.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions WHERE level = ? ORDER BY id LIMIT 1 OFFSET ?"
	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, level, offset))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question at level %d offset %d: %w", level, offset, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// AllQuestions returns the whole catalog ordered by level
func (r *QuestionRepository) AllQuestions(ctx context.Context) ([]*models.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions ORDER BY level, id"
	return r.queryQuestions(ctx, query)
}

func (r *QuestionRepository) queryQuestions(ctx context.Context, query string, args ...interface{}) ([]*models.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.ID,
		&q.Level,
		&q.Text,
		&q.Answer1,
		&q.Answer2,
		&q.Answer3,
		&q.Answer4,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}
