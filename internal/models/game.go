package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeLimit is how long a game may run before answers are rejected as timed out
const TimeLimit = 35 * time.Minute

// GameStatus is derived from the game's fields and never stored
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusFail       GameStatus = "fail"
	StatusTimeout    GameStatus = "timeout"
	StatusMoney      GameStatus = "money"
)

// Game is one playthrough of fifteen questions by a user
type Game struct {
	ID               int64
	Token            string
	UserID           int64
	CurrentLevel     int
	IsFailed         bool
	Prize            decimal.Decimal
	FinishedAt       *time.Time
	FiftyFiftyUsed   bool
	AudienceHelpUsed bool
	FriendCallUsed   bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// GameQuestions are ordered by level, index == level
	GameQuestions []*GameQuestion
}

// NewGame builds an unsaved game for userID from one question per level.
// A level without a question yields ErrCatalogExhausted.
func NewGame(userID int64, questions []*Question, rng RandomSource, now time.Time) (*Game, error) {
	byLevel := make(map[int]*Question, len(questions))
	for _, q := range questions {
		if q.Level < QuestionLevelMin || q.Level > QuestionLevelMax {
			return nil, fmt.Errorf("question %d has level %d: %w", q.ID, q.Level, ErrMalformedGame)
		}
		if _, dup := byLevel[q.Level]; dup {
			return nil, fmt.Errorf("two questions for level %d: %w", q.Level, ErrMalformedGame)
		}
		byLevel[q.Level] = q
	}

	game := &Game{
		Token:     uuid.NewString(),
		UserID:    userID,
		Prize:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, level := range QuestionLevels() {
		q, ok := byLevel[level]
		if !ok {
			return nil, fmt.Errorf("no question for level %d: %w", level, ErrCatalogExhausted)
		}
		gq := NewGameQuestion(q, rng)
		gq.CreatedAt = now
		gq.UpdatedAt = now
		game.GameQuestions = append(game.GameQuestions, gq)
	}

	return game, nil
}

// CheckQuestions returns ErrMalformedGame unless the game holds exactly one
// question per level, ordered by level
func (g *Game) CheckQuestions() error {
	if len(g.GameQuestions) != QuestionsPerGame {
		return fmt.Errorf("game %d has %d questions: %w", g.ID, len(g.GameQuestions), ErrMalformedGame)
	}
	for i, gq := range g.GameQuestions {
		if gq.Level != QuestionLevelMin+i {
			return fmt.Errorf("game %d has no question for level %d: %w", g.ID, QuestionLevelMin+i, ErrMalformedGame)
		}
	}
	return nil
}

// IsFinished reports whether the game has ended by any means
func (g *Game) IsFinished() bool {
	return g.FinishedAt != nil
}

// Status derives the game's status. A failed game is "timeout" when it ended
// after the time limit and "fail" otherwise; failure outranks a won level.
func (g *Game) Status() GameStatus {
	if !g.IsFinished() {
		if g.IsFailed {
			return StatusFail
		}
		return StatusInProgress
	}

	overtime := g.FinishedAt.Sub(g.CreatedAt) > TimeLimit
	switch {
	case g.IsFailed && overtime:
		return StatusTimeout
	case g.IsFailed:
		return StatusFail
	case g.CurrentLevel > QuestionLevelMax:
		return StatusWon
	case overtime:
		return StatusTimeout
	default:
		return StatusMoney
	}
}

// TimedOut reports whether the time limit has passed at now
func (g *Game) TimedOut(now time.Time) bool {
	return now.Sub(g.CreatedAt) > TimeLimit
}

// CurrentGameQuestion returns the question being played, nil once past the last level
func (g *Game) CurrentGameQuestion() *GameQuestion {
	return g.questionAt(g.CurrentLevel)
}

// PreviousGameQuestion returns the last answered question, nil before the first answer
func (g *Game) PreviousGameQuestion() *GameQuestion {
	return g.questionAt(g.PreviousLevel())
}

// PreviousLevel is the highest cleared level, -1 when nothing is cleared
func (g *Game) PreviousLevel() int {
	return g.CurrentLevel - 1
}

func (g *Game) questionAt(index int) *GameQuestion {
	if index < 0 || index >= len(g.GameQuestions) {
		return nil
	}
	if gq := g.GameQuestions[index]; gq.Level == index {
		return gq
	}
	return nil
}

// AnswerCurrentQuestion checks key against the current question.
// After the time limit every answer fails the game. A wrong answer fails the
// game with the fireproof prize; answering the last level wins the top prize.
func (g *Game) AnswerCurrentQuestion(key string, now time.Time) (bool, error) {
	if g.IsFinished() {
		return false, ErrGameFinished
	}
	q := g.CurrentGameQuestion()
	if q == nil {
		return false, ErrMalformedGame
	}

	if g.TimedOut(now) {
		g.finish(FireproofPrize(g.PreviousLevel()), true, now)
		return false, nil
	}

	if !q.AnswerCorrect(key) {
		g.finish(FireproofPrize(g.PreviousLevel()), true, now)
		return false, nil
	}

	g.CurrentLevel++
	g.UpdatedAt = now
	if g.CurrentLevel > QuestionLevelMax {
		g.finish(PrizeForLevel(QuestionLevelMax), false, now)
	}
	return true, nil
}

// TakeMoney ends the game with the prize of the last cleared level.
// Past the time limit the game is finished as timed out and ErrTimeExpired is returned.
func (g *Game) TakeMoney(now time.Time) error {
	if g.IsFinished() {
		return ErrGameFinished
	}
	if g.TimedOut(now) {
		g.finish(FireproofPrize(g.PreviousLevel()), true, now)
		return ErrTimeExpired
	}
	if g.PreviousLevel() < 0 {
		return ErrNothingToTake
	}

	g.finish(PrizeForLevel(g.PreviousLevel()), false, now)
	return nil
}

// UseHelp reveals a hint for the current question. Each help works once per
// game; a second use returns false without changing anything.
func (g *Game) UseHelp(help HelpType, rng RandomSource, now time.Time) (bool, error) {
	if g.IsFinished() {
		return false, ErrGameFinished
	}
	q := g.CurrentGameQuestion()
	if q == nil {
		return false, ErrMalformedGame
	}

	keys := q.VariantKeys()
	correct := q.CorrectAnswerKey()

	switch help {
	case HelpFiftyFifty:
		if g.FiftyFiftyUsed {
			return false, nil
		}
		g.FiftyFiftyUsed = true
		q.Help.FiftyFifty = fiftyFifty(keys, correct, rng)
	case HelpAudienceHelp:
		if g.AudienceHelpUsed {
			return false, nil
		}
		g.AudienceHelpUsed = true
		q.Help.AudienceHelp = audienceDistribution(keys, correct, rng)
	case HelpFriendCall:
		if g.FriendCallUsed {
			return false, nil
		}
		g.FriendCallUsed = true
		q.Help.FriendCall = friendCall(keys, correct, rng)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownHelp, help)
	}

	q.UpdatedAt = now
	g.UpdatedAt = now
	return true, nil
}

func (g *Game) finish(prize decimal.Decimal, failed bool, now time.Time) {
	finishedAt := now
	g.FinishedAt = &finishedAt
	g.IsFailed = failed
	g.Prize = prize
	g.UpdatedAt = now
}
