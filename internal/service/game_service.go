package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"millionaire/internal/models"
)

// ErrPersistence wraps every failure to store game state.
// The in-memory game is rolled back before it is returned.
var ErrPersistence = errors.New("failed to persist game")

// QuestionCatalog is the read-only source of questions
type QuestionCatalog interface {
	CountQuestionsAtLevel(ctx context.Context, level int) (int, error)
	QuestionAtLevel(ctx context.Context, level, offset int) (*models.Question, error)
}

// GameStore persists games
type GameStore interface {
	CreateGame(ctx context.Context, game *models.Game) error
	GetGameByID(ctx context.Context, id int64) (*models.Game, error)
	GetGameByToken(ctx context.Context, token string) (*models.Game, error)
	SaveGame(ctx context.Context, game *models.Game) error
	SaveHelp(ctx context.Context, game *models.Game, gq *models.GameQuestion) error
	FinishGame(ctx context.Context, game *models.Game) error
}

// UserStore looks up game owners
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// GameService runs games against the catalog and the game store
type GameService struct {
	games     GameStore
	questions QuestionCatalog
	users     UserStore
	clock     Clock
	rng       *lockedRand
}

// NewGameService creates a new game service. A nil clock uses the wall clock and
// a nil rng is seeded from the current time.
func NewGameService(games GameStore, questions QuestionCatalog, users UserStore, clock Clock, rng *rand.Rand) *GameService {
	if clock == nil {
		clock = SystemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameService{
		games:     games,
		questions: questions,
		users:     users,
		clock:     clock,
		rng:       &lockedRand{rng: rng},
	}
}

// CreateGameForUser starts a game with one random catalog question per level
func (s *GameService) CreateGameForUser(ctx context.Context, userID int64) (*models.Game, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	questions := make([]*models.Question, 0, models.QuestionsPerGame)
	for _, level := range models.QuestionLevels() {
		q, err := s.pickQuestion(ctx, level)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	game, err := models.NewGame(userID, questions, s.rng, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.games.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Printf("Game %d created for user %d", game.ID, userID)
	return game, nil
}

func (s *GameService) pickQuestion(ctx context.Context, level int) (*models.Question, error) {
	count, err := s.questions.CountQuestionsAtLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("level %d: %w", level, models.ErrCatalogExhausted)
	}
	return s.questions.QuestionAtLevel(ctx, level, s.rng.Intn(count))
}

// GetGame loads a game by ID
func (s *GameService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	return s.games.GetGameByID(ctx, id)
}

// GetGameByToken loads a game by its public token
func (s *GameService) GetGameByToken(ctx context.Context, token string) (*models.Game, error) {
	return s.games.GetGameByToken(ctx, token)
}

// AnswerCurrentQuestion answers the game's current question and stores the result.
// It returns false for a wrong answer and for any answer after the time limit.
func (s *GameService) AnswerCurrentQuestion(ctx context.Context, game *models.Game, key string) (bool, error) {
	snapshot := *game

	correct, err := game.AnswerCurrentQuestion(key, s.clock.Now())
	if err != nil {
		return false, err
	}

	if err := s.persist(ctx, game); err != nil {
		*game = snapshot
		return false, err
	}
	return correct, nil
}

// TakeMoney ends the game and credits the prize of the last cleared level.
// Past the time limit the game is stored as timed out and ErrTimeExpired is returned.
func (s *GameService) TakeMoney(ctx context.Context, game *models.Game) error {
	snapshot := *game

	takeErr := game.TakeMoney(s.clock.Now())
	if takeErr != nil && !errors.Is(takeErr, models.ErrTimeExpired) {
		return takeErr
	}

	if err := s.persist(ctx, game); err != nil {
		*game = snapshot
		return err
	}
	return takeErr
}

// UseHelp reveals a hint on the current question and stores it
func (s *GameService) UseHelp(ctx context.Context, game *models.Game, help models.HelpType) (bool, error) {
	snapshot := *game
	q := game.CurrentGameQuestion()
	if q == nil {
		return game.UseHelp(help, s.rng, s.clock.Now())
	}
	questionSnapshot := *q

	used, err := game.UseHelp(help, s.rng, s.clock.Now())
	if err != nil || !used {
		return used, err
	}

	if err := s.games.SaveHelp(ctx, game, q); err != nil {
		*game = snapshot
		*q = questionSnapshot
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return true, nil
}

func (s *GameService) persist(ctx context.Context, game *models.Game) error {
	if !game.IsFinished() {
		if err := s.games.SaveGame(ctx, game); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil
	}

	if err := s.games.FinishGame(ctx, game); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	log.Printf("Game %d finished: status=%s level=%d prize=%s", game.ID, game.Status(), game.CurrentLevel, game.Prize)
	return nil
}
