package service

import (
	"context"
	"fmt"
	"time"

	"millionaire/internal/models"
	"millionaire/internal/repository"

	"github.com/shopspring/decimal"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeCatalog struct {
	byLevel map[int][]*models.Question
}

// newFakeCatalog holds perLevel questions for every level
func newFakeCatalog(perLevel int) *fakeCatalog {
	c := &fakeCatalog{byLevel: make(map[int][]*models.Question)}
	id := int64(1)
	for _, level := range models.QuestionLevels() {
		for i := 0; i < perLevel; i++ {
			c.byLevel[level] = append(c.byLevel[level], &models.Question{
				ID:      id,
				Level:   level,
				Text:    fmt.Sprintf("Question %d at level %d", i, level),
				Answer1: "right",
				Answer2: "wrong 1",
				Answer3: "wrong 2",
				Answer4: "wrong 3",
			})
			id++
		}
	}
	return c
}

func (c *fakeCatalog) CountQuestionsAtLevel(ctx context.Context, level int) (int, error) {
	return len(c.byLevel[level]), nil
}

func (c *fakeCatalog) QuestionAtLevel(ctx context.Context, level, offset int) (*models.Question, error) {
	questions := c.byLevel[level]
	if offset < 0 || offset >= len(questions) {
		return nil, repository.ErrNotFound
	}
	return questions[offset], nil
}

type fakeGameStore struct {
	games    map[int64]*models.Game
	nextID   int64
	credited map[int64]decimal.Decimal

	saves    int
	finishes int
	helps    int

	createErr error
	saveErr   error
	finishErr error
	helpErr   error
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{
		games:    make(map[int64]*models.Game),
		credited: make(map[int64]decimal.Decimal),
	}
}

func (s *fakeGameStore) CreateGame(ctx context.Context, game *models.Game) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	game.ID = s.nextID
	for _, gq := range game.GameQuestions {
		gq.GameID = game.ID
	}
	s.games[game.ID] = game
	return nil
}

func (s *fakeGameStore) GetGameByID(ctx context.Context, id int64) (*models.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return game, nil
}

func (s *fakeGameStore) GetGameByToken(ctx context.Context, token string) (*models.Game, error) {
	for _, game := range s.games {
		if game.Token == token {
			return game, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeGameStore) SaveGame(ctx context.Context, game *models.Game) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	return nil
}

func (s *fakeGameStore) SaveHelp(ctx context.Context, game *models.Game, gq *models.GameQuestion) error {
	if s.helpErr != nil {
		return s.helpErr
	}
	s.helps++
	return nil
}

func (s *fakeGameStore) FinishGame(ctx context.Context, game *models.Game) error {
	if s.finishErr != nil {
		return s.finishErr
	}
	s.finishes++
	s.credited[game.UserID] = s.credited[game.UserID].Add(game.Prize)
	return nil
}

type fakeUsers struct {
	users map[int64]*models.User
}

func (u *fakeUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	return user, nil
}
