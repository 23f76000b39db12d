package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"millionaire/internal/database"
	"millionaire/internal/models"
)

// GameRepository handles database operations for games and their questions
type GameRepository struct {
	db    *database.DB
	users *UserRepository
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB, users *UserRepository) *GameRepository {
	return &GameRepository{db: db, users: users}
}

const gameColumns = `id, token, user_id, current_level, is_failed, prize, finished_at,
	fifty_fifty_used, audience_help_used, friend_call_used, created_at, updated_at`

// CreateGame inserts the game and all of its questions in one transaction.
// IDs are assigned to game and questions only after the commit succeeds.
func (r *GameRepository) CreateGame(ctx context.Context, game *models.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO games (token, user_id, current_level, is_failed, prize, finished_at,
			fifty_fifty_used, audience_help_used, friend_call_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	gameID, err := tx.ExecReturningID(ctx, query,
		game.Token,
		game.UserID,
		game.CurrentLevel,
		game.IsFailed,
		game.Prize,
		nullTime(game),
		game.FiftyFiftyUsed,
		game.AudienceHelpUsed,
		game.FriendCallUsed,
		game.CreatedAt.UTC(),
		game.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	questionIDs := make([]int64, len(game.GameQuestions))
	query = `
		INSERT INTO game_questions (game_id, question_id, level, a, b, c, d, help_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, gq := range game.GameQuestions {
		id, err := tx.ExecReturningID(ctx, query,
			gameID,
			gq.QuestionID,
			gq.Level,
			gq.A, gq.B, gq.C, gq.D,
			gq.Help,
			gq.CreatedAt.UTC(),
			gq.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create game question for level %d: %w", gq.Level, err)
		}
		questionIDs[i] = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	game.ID = gameID
	for i, gq := range game.GameQuestions {
		gq.ID = questionIDs[i]
		gq.GameID = gameID
	}
	return nil
}

// GetGameByID loads a game with its questions ordered by level
func (r *GameRepository) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	return r.getGame(ctx, "id = ?", id)
}

// GetGameByToken loads a game by its public token
func (r *GameRepository) GetGameByToken(ctx context.Context, token string) (*models.Game, error) {
	return r.getGame(ctx, "token = ?", token)
}

func (r *GameRepository) getGame(ctx context.Context, where string, arg interface{}) (*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE " + where
	game, err := scanGame(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.GameQuestions, err = r.gameQuestions(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if err := game.CheckQuestions(); err != nil {
		return nil, err
	}
	return game, nil
}

func (r *GameRepository) gameQuestions(ctx context.Context, gameID int64) ([]*models.GameQuestion, error) {
	query := `
		SELECT gq.id, gq.game_id, gq.question_id, gq.level, gq.a, gq.b, gq.c, gq.d,
		       gq.help_hash, gq.created_at, gq.updated_at,
		       q.id, q.level, q.text, q.answer1, q.answer2, q.answer3, q.answer4,
		       q.created_at, q.updated_at
		FROM game_questions gq
		JOIN questions q ON q.id = gq.question_id
		WHERE gq.game_id = ?
		ORDER BY gq.level ASC
	`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.GameQuestion
	for rows.Next() {
		gq := &models.GameQuestion{Question: &models.Question{}}
		err := rows.Scan(
			&gq.ID,
			&gq.GameID,
			&gq.QuestionID,
			&gq.Level,
			&gq.A,
			&gq.B,
			&gq.C,
			&gq.D,
			&gq.Help,
			&gq.CreatedAt,
			&gq.UpdatedAt,
			&gq.Question.ID,
			&gq.Question.Level,
			&gq.Question.Text,
			&gq.Question.Answer1,
			&gq.Question.Answer2,
			&gq.Question.Answer3,
			&gq.Question.Answer4,
			&gq.Question.CreatedAt,
			&gq.Question.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game question: %w", err)
		}
		questions = append(questions, gq)
	}

	return questions, rows.Err()
}

// GamesForUser returns the user's games, newest first, without their questions
func (r *GameRepository) GamesForUser(ctx context.Context, userID int64) ([]*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// SaveGame stores the mutable fields of an unfinished game.
// A game already finished in the database is never overwritten.
func (r *GameRepository) SaveGame(ctx context.Context, game *models.Game) error {
	return r.updateGame(ctx, r.db, game)
}

// SaveHelp stores the game's help flags together with the hint written to gq
func (r *GameRepository) SaveHelp(ctx context.Context, game *models.Game, gq *models.GameQuestion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.updateGame(ctx, tx, game); err != nil {
		return err
	}

	query := "UPDATE game_questions SET help_hash = ?, updated_at = ? WHERE id = ? AND game_id = ?"
	if _, err := tx.ExecContext(ctx, query, gq.Help, gq.UpdatedAt.UTC(), gq.ID, game.ID); err != nil {
		return fmt.Errorf("failed to save help: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FinishGame stores a finished game and credits its prize to the owner in one
// transaction, so the balance is credited at most once per game.
func (r *GameRepository) FinishGame(ctx context.Context, game *models.Game) error {
	if !game.IsFinished() {
		return fmt.Errorf("finish game %d: game is still in progress", game.ID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.updateGame(ctx, tx, game); err != nil {
		return err
	}

	if game.Prize.IsPositive() {
		if err := r.users.CreditBalance(ctx, tx, game.UserID, game.Prize); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *GameRepository) updateGame(ctx context.Context, exec database.DBTX, game *models.Game) error {
	query := `
		UPDATE games
		SET current_level = ?, is_failed = ?, prize = ?, finished_at = ?,
		    fifty_fifty_used = ?, audience_help_used = ?, friend_call_used = ?, updated_at = ?
		WHERE id = ? AND finished_at IS NULL
	`
	result, err := exec.ExecContext(ctx, query,
		game.CurrentLevel,
		game.IsFailed,
		game.Prize,
		nullTime(game),
		game.FiftyFiftyUsed,
		game.AudienceHelpUsed,
		game.FriendCallUsed,
		game.UpdatedAt.UTC(),
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var count int
	if err := exec.QueryRowContext(ctx, "SELECT COUNT(*) FROM games WHERE id = ?", game.ID).Scan(&count); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("game %d: %w", game.ID, ErrNotFound)
	}
	return fmt.Errorf("game %d: %w", game.ID, models.ErrGameFinished)
}

// CountGames returns the number of games
func (r *GameRepository) CountGames(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

// CountGameQuestions returns the number of game questions across all games
func (r *GameRepository) CountGameQuestions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count game questions: %w", err)
	}
	return count, nil
}

func nullTime(game *models.Game) sql.NullTime {
	if game.FinishedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: game.FinishedAt.UTC(), Valid: true}
}

func scanGame(row rowScanner) (*models.Game, error) {
	game := &models.Game{}
	var finishedAt sql.NullTime
	err := row.Scan(
		&game.ID,
		&game.Token,
		&game.UserID,
		&game.CurrentLevel,
		&game.IsFailed,
		&game.Prize,
		&finishedAt,
		&game.FiftyFiftyUsed,
		&game.AudienceHelpUsed,
		&game.FriendCallUsed,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if finishedAt.Valid {
		game.FinishedAt = &finishedAt.Time
	}
	return game, nil
}
