package models

import (
	"strings"
	"time"
)

var variantKeys = []string{"a", "b", "c", "d"}

// GameQuestion binds a catalog question to one level of a game.
// A, B, C and D hold the number (1..4) of the Question answer shown under that key;
// the mapping is shuffled once at game creation and never changes.
type GameQuestion struct {
	ID         int64
	GameID     int64
	QuestionID int64
	Level      int
	A          int
	B          int
	C          int
	D          int
	Help       HelpHash
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Question *Question
}

// NewGameQuestion shuffles the answers of q into the a..d variants
func NewGameQuestion(q *Question, rng RandomSource) *GameQuestion {
	perm := rng.Perm(len(variantKeys))
	return &GameQuestion{
		QuestionID: q.ID,
		Level:      q.Level,
		A:          perm[0] + 1,
		B:          perm[1] + 1,
		C:          perm[2] + 1,
		D:          perm[3] + 1,
		Question:   q,
	}
}

// Text returns the question text
func (gq *GameQuestion) Text() string {
	if gq.Question == nil {
		return ""
	}
	return gq.Question.Text
}

// VariantKeys returns the answer keys in display order
func (gq *GameQuestion) VariantKeys() []string {
	keys := make([]string, len(variantKeys))
	copy(keys, variantKeys)
	return keys
}

// Variants maps each key to the answer text shown under it
func (gq *GameQuestion) Variants() map[string]string {
	variants := make(map[string]string, len(variantKeys))
	for _, key := range variantKeys {
		text := ""
		if gq.Question != nil {
			text = gq.Question.Answer(gq.answerNumber(key))
		}
		variants[key] = text
	}
	return variants
}

// CorrectAnswerKey returns the key hiding Answer1
func (gq *GameQuestion) CorrectAnswerKey() string {
	for _, key := range variantKeys {
		if gq.answerNumber(key) == 1 {
			return key
		}
	}
	return ""
}

// AnswerCorrect reports whether key selects the correct answer
func (gq *GameQuestion) AnswerCorrect(key string) bool {
	return strings.ToLower(strings.TrimSpace(key)) == gq.CorrectAnswerKey()
}

func (gq *GameQuestion) answerNumber(key string) int {
	switch key {
	case "a":
		return gq.A
	case "b":
		return gq.B
	case "c":
		return gq.C
	case "d":
		return gq.D
	}
	return 0
}
