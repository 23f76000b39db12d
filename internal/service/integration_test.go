package service

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"millionaire/internal/database"
	"millionaire/internal/models"
	"millionaire/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type integrationEnv struct {
	svc       *GameService
	users     *repository.UserRepository
	questions *repository.QuestionRepository
	games     *repository.GameRepository
	clock     *fakeClock
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), "../../migrations"))

	env := &integrationEnv{
		users:     repository.NewUserRepository(db),
		questions: repository.NewQuestionRepository(db),
		clock:     &fakeClock{now: time.Now().UTC().Truncate(time.Second)},
	}
	env.games = repository.NewGameRepository(db, env.users)
	env.svc = NewGameService(env.games, env.questions, env.users, env.clock, rand.New(rand.NewSource(11)))
	return env
}

func (env *integrationEnv) seedCatalog(t *testing.T, perLevel int) {
	t.Helper()

	var questions []*models.Question
	for _, level := range models.QuestionLevels() {
		for n := 0; n < perLevel; n++ {
			questions = append(questions, &models.Question{
				Level:   level,
				Text:    fmt.Sprintf("Level %d, question %d", level, n),
				Answer1: "yes",
				Answer2: "no",
				Answer3: "maybe",
				Answer4: "never",
			})
		}
	}
	_, err := env.questions.CreateQuestions(context.Background(), questions)
	require.NoError(t, err)
}

func (env *integrationEnv) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	user, err := env.users.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Balance
}

func TestGameLifecycleIntegration(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedCatalog(t, 2)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "Winner", "winner@example.com")
	require.NoError(t, err)

	questionsBefore, err := env.questions.CountQuestions(ctx)
	require.NoError(t, err)

	game, err := env.svc.CreateGameForUser(ctx, user.ID)
	require.NoError(t, err)

	questionsAfter, err := env.questions.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, questionsBefore, questionsAfter)
	assert.Equal(t, 2*models.QuestionsPerGame, questionsAfter)

	games, err := env.games.CountGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, games)
	gameQuestions, err := env.games.CountGameQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionsPerGame, gameQuestions)

	used, err := env.svc.UseHelp(ctx, game, models.HelpAudienceHelp)
	require.NoError(t, err)
	assert.True(t, used)

	for level := models.QuestionLevelMin; level <= models.QuestionLevelMax; level++ {
		env.clock.Advance(time.Minute)
		ok, err := env.svc.AnswerCurrentQuestion(ctx, game, game.CurrentGameQuestion().CorrectAnswerKey())
		require.NoError(t, err)
		require.True(t, ok)
	}

	loaded, err := env.svc.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWon, loaded.Status())
	assert.Equal(t, models.QuestionLevelMax+1, loaded.CurrentLevel)
	assert.True(t, loaded.AudienceHelpUsed)
	assert.Len(t, loaded.GameQuestions[0].Help.AudienceHelp, 4)
	assert.True(t, env.balance(t, user.ID).Equal(loaded.Prize))
	assert.True(t, loaded.Prize.Equal(decimal.NewFromInt(1000000)))
}

func TestGameFailureIntegration(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedCatalog(t, 1)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "Loser", "loser@example.com")
	require.NoError(t, err)

	game, err := env.svc.CreateGameForUser(ctx, user.ID)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := env.svc.AnswerCurrentQuestion(ctx, game, game.CurrentGameQuestion().CorrectAnswerKey())
		require.NoError(t, err)
	}
	ok, err := env.svc.AnswerCurrentQuestion(ctx, game, wrongAnswerKey(game.CurrentGameQuestion()))
	require.NoError(t, err)
	assert.False(t, ok)

	loaded, err := env.svc.GetGameByToken(ctx, game.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFail, loaded.Status())
	assert.True(t, loaded.Prize.Equal(decimal.NewFromInt(32000)))
	assert.True(t, env.balance(t, user.ID).Equal(decimal.NewFromInt(32000)))
}

func TestGameTimeoutIntegration(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedCatalog(t, 1)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "Slow", "slow@example.com")
	require.NoError(t, err)

	game, err := env.svc.CreateGameForUser(ctx, user.ID)
	require.NoError(t, err)

	env.clock.Advance(models.TimeLimit + time.Minute)
	ok, err := env.svc.AnswerCurrentQuestion(ctx, game, game.CurrentGameQuestion().CorrectAnswerKey())
	require.NoError(t, err)
	assert.False(t, ok)

	loaded, err := env.svc.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTimeout, loaded.Status())
	assert.True(t, env.balance(t, user.ID).IsZero())
}

func TestTakeMoneyIntegration(t *testing.T) {
	env := newIntegrationEnv(t)
	env.seedCatalog(t, 1)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "Careful", "careful@example.com")
	require.NoError(t, err)

	game, err := env.svc.CreateGameForUser(ctx, user.ID)
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		_, err := env.svc.AnswerCurrentQuestion(ctx, game, game.CurrentGameQuestion().CorrectAnswerKey())
		require.NoError(t, err)
	}

	require.NoError(t, env.svc.TakeMoney(ctx, game))
	assert.True(t, env.balance(t, user.ID).Equal(decimal.NewFromInt(4000)))

	// A copy loaded from the database cannot be finished a second time
	loaded, err := env.svc.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMoney, loaded.Status())
	assert.ErrorIs(t, env.svc.TakeMoney(ctx, loaded), models.ErrInvalidTransition)
	assert.True(t, env.balance(t, user.ID).Equal(decimal.NewFromInt(4000)))
}

func TestCreateGameCatalogExhaustedIntegration(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "Early", "early@example.com")
	require.NoError(t, err)

	_, err = env.svc.CreateGameForUser(ctx, user.ID)
	assert.ErrorIs(t, err, models.ErrCatalogExhausted)

	games, err := env.games.CountGames(ctx)
	require.NoError(t, err)
	assert.Zero(t, games)
}
