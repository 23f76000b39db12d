package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"millionaire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCatalog struct {
	questions []*models.Question
}

func (m *memoryCatalog) CreateQuestions(ctx context.Context, questions []*models.Question) (int, error) {
	for _, q := range questions {
		q.ID = int64(len(m.questions) + 1)
		m.questions = append(m.questions, q)
	}
	return len(questions), nil
}

func (m *memoryCatalog) AllQuestions(ctx context.Context) ([]*models.Question, error) {
	return m.questions, nil
}

func (m *memoryCatalog) CountByLevel(ctx context.Context) (map[int]int, error) {
	counts := make(map[int]int)
	for _, q := range m.questions {
		counts[q.Level]++
	}
	return counts, nil
}

const sampleQuestions = `Сколько будет дважды два?
4
3
5
22

What is the capital of France?
Paris
Lyon
Marseille
Nice
`

func TestParseText(t *testing.T) {
	questions, err := ParseText(strings.NewReader(sampleQuestions), 3)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "What is the capital of France?", questions[1].Text)
	assert.Equal(t, "Paris", questions[1].Answer1)
	assert.Equal(t, "Nice", questions[1].Answer4)
	for _, q := range questions {
		assert.Equal(t, 3, q.Level)
	}
}

func TestParseTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		level int
	}{
		{"short block", "Question?\nA\nB\nC\n", 0},
		{"long block", "Question?\nA\nB\nC\nD\nE\n", 0},
		{"bad level", "Question?\nA\nB\nC\nD\n", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(tt.input), tt.level)
			assert.Error(t, err)
		})
	}
}

func TestParseTextSkipsExtraBlankLines(t *testing.T) {
	input := "\n\nQ?\nA\nB\nC\nD\n\n\n\n"
	questions, err := ParseText(strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestLevelFromFileName(t *testing.T) {
	tests := []struct {
		path    string
		want    int
		wantErr bool
	}{
		{"questions/questions_7.txt", 7, false},
		{"level0.txt", 0, false},
		{"q_14", 14, false},
		{"questions_15.txt", 0, true},
		{"questions.txt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := levelFromFileName(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogImportText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions_5.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleQuestions), 0644))

	store := &memoryCatalog{}
	svc := NewCatalogService(store)

	count, err := svc.Import(context.Background(), path, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 5, store.questions[0].Level)

	count, err = svc.Import(context.Background(), path, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 9, store.questions[2].Level)
}

func TestCatalogExportImportJSON(t *testing.T) {
	source := &memoryCatalog{}
	for _, level := range models.QuestionLevels() {
		source.questions = append(source.questions, &models.Question{
			Level:   level,
			Text:    "Question?",
			Answer1: "right",
			Answer2: "w1",
			Answer3: "w2",
			Answer4: "w3",
		})
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, NewCatalogService(source).Export(context.Background(), path))

	target := &memoryCatalog{}
	svc := NewCatalogService(target)
	count, err := svc.Import(context.Background(), path, -1)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionsPerGame, count)
	assert.Equal(t, "right", target.questions[14].Answer1)
	assert.Equal(t, 14, target.questions[14].Level)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Playable())
	assert.Equal(t, models.QuestionsPerGame, stats.Total)
}

func TestCatalogImportRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `{"version":"1.0","questions":[{"level":20,"text":"Q?","answers":["a","b","c","d"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	store := &memoryCatalog{}
	_, err := NewCatalogService(store).Import(context.Background(), path, -1)
	assert.Error(t, err)
	assert.Empty(t, store.questions)
}

func TestCatalogStats(t *testing.T) {
	store := &memoryCatalog{}
	questions, err := ParseText(strings.NewReader(sampleQuestions), 0)
	require.NoError(t, err)
	_, err = store.CreateQuestions(context.Background(), questions)
	require.NoError(t, err)

	stats, err := NewCatalogService(store).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByLevel[0])
	assert.False(t, stats.Playable())
	assert.Len(t, stats.MissingLevels, models.QuestionsPerGame-1)
	assert.Equal(t, 1, stats.MissingLevels[0])
}
