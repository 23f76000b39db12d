package models

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidation(t *testing.T) {
	valid := Question{Level: 3, Text: "Capital of France?", Answer1: "Paris", Answer2: "Lyon", Answer3: "Nice", Answer4: "Lille"}

	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{name: "valid question", mutate: func(q *Question) {}, wantErr: false},
		{name: "negative level", mutate: func(q *Question) { q.Level = -1 }, wantErr: true},
		{name: "level above max", mutate: func(q *Question) { q.Level = QuestionLevelMax + 1 }, wantErr: true},
		{name: "empty text", mutate: func(q *Question) { q.Text = "  " }, wantErr: true},
		{name: "missing answer", mutate: func(q *Question) { q.Answer3 = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestionLevels(t *testing.T) {
	levels := QuestionLevels()

	assert.Len(t, levels, QuestionsPerGame)
	assert.Equal(t, QuestionLevelMin, levels[0])
	assert.Equal(t, QuestionLevelMax, levels[len(levels)-1])
}

func TestPrizeForLevel(t *testing.T) {
	assert.True(t, PrizeForLevel(-1).IsZero())
	assert.True(t, decimal.NewFromInt(100).Equal(PrizeForLevel(0)))
	assert.True(t, decimal.NewFromInt(1000000).Equal(PrizeForLevel(QuestionLevelMax)))
	assert.True(t, decimal.NewFromInt(1000000).Equal(PrizeForLevel(QuestionLevelMax+1)))

	for level := 1; level <= QuestionLevelMax; level++ {
		assert.True(t, PrizeForLevel(level).GreaterThan(PrizeForLevel(level-1)), "level %d", level)
	}
}

func TestFireproofPrize(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{level: -1, want: 0},
		{level: 0, want: 0},
		{level: 3, want: 0},
		{level: 4, want: 1000},
		{level: 8, want: 1000},
		{level: 9, want: 32000},
		{level: 14, want: 32000},
	}

	for _, tt := range tests {
		assert.True(t, decimal.NewFromInt(tt.want).Equal(FireproofPrize(tt.level)), "level %d", tt.level)
	}
}

func TestGameQuestionVariants(t *testing.T) {
	q := &Question{ID: 9, Level: 0, Text: "2+2?", Answer1: "4", Answer2: "3", Answer3: "5", Answer4: "22"}
	gq := NewGameQuestion(q, rand.New(rand.NewSource(3)))

	assert.Equal(t, "2+2?", gq.Text())
	assert.Equal(t, []string{"a", "b", "c", "d"}, gq.VariantKeys())

	variants := gq.Variants()
	require.Len(t, variants, 4)
	assert.Equal(t, "4", variants[gq.CorrectAnswerKey()])
	assert.ElementsMatch(t, []string{"4", "3", "5", "22"}, []string{variants["a"], variants["b"], variants["c"], variants["d"]})

	assert.True(t, gq.AnswerCorrect(gq.CorrectAnswerKey()))
	assert.False(t, gq.AnswerCorrect("z"))
}

func TestParseHelpType(t *testing.T) {
	h, err := ParseHelpType(" Fifty_Fifty ")
	require.NoError(t, err)
	assert.Equal(t, HelpFiftyFifty, h)

	_, err = ParseHelpType("skip")
	assert.ErrorIs(t, err, ErrUnknownHelp)
}

func TestHelpHashScan(t *testing.T) {
	var h HelpHash
	require.NoError(t, h.Scan(`{"fifty_fifty":["a","c"],"friend_call":{"friend":"Anna","key":"c"}}`))
	assert.Equal(t, []string{"a", "c"}, h.FiftyFifty)
	require.NotNil(t, h.FriendCall)
	assert.Equal(t, "Anna thinks the answer is C", h.FriendCall.String())

	require.NoError(t, h.Scan(nil))
	assert.Equal(t, HelpHash{}, h)

	assert.Error(t, h.Scan(42))
}
