package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	QuestionLevelMin = 0
	QuestionLevelMax = 14

	// QuestionsPerGame is the number of levels a game walks through
	QuestionsPerGame = QuestionLevelMax - QuestionLevelMin + 1
)

// QuestionLevels returns every difficulty level in ascending order
func QuestionLevels() []int {
	levels := make([]int, 0, QuestionsPerGame)
	for level := QuestionLevelMin; level <= QuestionLevelMax; level++ {
		levels = append(levels, level)
	}
	return levels
}

// Question is a catalog entry. Answer1 is always the correct answer;
// the order shown to players is decided per game by GameQuestion.
type Question struct {
	ID        int64
	Level     int
	Text      string
	Answer1   string
	Answer2   string
	Answer3   string
	Answer4   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answer returns answer n (1..4), or "" for any other n
func (q *Question) Answer(n int) string {
	switch n {
	case 1:
		return q.Answer1
	case 2:
		return q.Answer2
	case 3:
		return q.Answer3
	case 4:
		return q.Answer4
	}
	return ""
}

// Validate checks the question can be used in a game
func (q *Question) Validate() error {
	if q.Level < QuestionLevelMin || q.Level > QuestionLevelMax {
		return fmt.Errorf("level %d out of range %d..%d", q.Level, QuestionLevelMin, QuestionLevelMax)
	}
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is required")
	}
	for n := 1; n <= 4; n++ {
		if strings.TrimSpace(q.Answer(n)) == "" {
			return fmt.Errorf("answer %d is required", n)
		}
	}
	return nil
}
