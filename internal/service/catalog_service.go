package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"millionaire/internal/models"
)

const catalogVersion = "1.0"

// CatalogData is the JSON representation of the question catalog
type CatalogData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Questions  []QuestionRecord `json:"questions"`
}

// QuestionRecord is one catalog question. Answers[0] is the correct one.
type QuestionRecord struct {
	Level   int       `json:"level"`
	Text    string    `json:"text"`
	Answers [4]string `json:"answers"`
}

// CatalogStore is the part of the question repository the catalog tool needs
type CatalogStore interface {
	CreateQuestions(ctx context.Context, questions []*models.Question) (int, error)
	AllQuestions(ctx context.Context) ([]*models.Question, error)
	CountByLevel(ctx context.Context) (map[int]int, error)
}

// CatalogStats summarises how many questions each level holds
type CatalogStats struct {
	Total         int
	ByLevel       map[int]int
	MissingLevels []int
}

// Playable reports whether every level has at least one question
func (s CatalogStats) Playable() bool {
	return len(s.MissingLevels) == 0
}

// CatalogService imports and exports the question catalog
type CatalogService struct {
	questions CatalogStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(questions CatalogStore) *CatalogService {
	return &CatalogService{questions: questions}
}

// Export writes the whole catalog to a JSON file
func (s *CatalogService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting catalog export...")

	questions, err := s.questions.AllQuestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	data := &CatalogData{
		Version:    catalogVersion,
		ExportedAt: time.Now().UTC(),
		Questions:  make([]QuestionRecord, 0, len(questions)),
	}
	for _, q := range questions {
		data.Questions = append(data.Questions, QuestionRecord{
			Level:   q.Level,
			Text:    q.Text,
			Answers: [4]string{q.Answer1, q.Answer2, q.Answer3, q.Answer4},
		})
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	log.Printf("Exported %d questions", len(data.Questions))
	return nil
}

// Import loads questions from a JSON export or a plain-text question file.
// For text files level applies to every question; a negative level is taken
// from the trailing number of the file name (e.g. questions_7.txt).
func (s *CatalogService) Import(ctx context.Context, inputPath string, level int) (int, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var questions []*models.Question
	if strings.EqualFold(filepath.Ext(inputPath), ".json") {
		questions, err = ParseJSON(file)
	} else {
		if level < 0 {
			level, err = levelFromFileName(inputPath)
			if err != nil {
				return 0, err
			}
		}
		questions, err = ParseText(file, level)
	}
	if err != nil {
		return 0, err
	}

	count, err := s.questions.CreateQuestions(ctx, questions)
	if err != nil {
		return 0, fmt.Errorf("failed to import questions: %w", err)
	}

	log.Printf("Imported %d questions from %s", count, inputPath)
	return count, nil
}

// Stats returns per-level question counts
func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	byLevel, err := s.questions.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}

	stats := &CatalogStats{ByLevel: make(map[int]int, models.QuestionsPerGame)}
	for _, level := range models.QuestionLevels() {
		count := byLevel[level]
		stats.ByLevel[level] = count
		stats.Total += count
		if count == 0 {
			stats.MissingLevels = append(stats.MissingLevels, level)
		}
	}
	return stats, nil
}

// ParseJSON reads questions from a catalog export
func ParseJSON(r io.Reader) ([]*models.Question, error) {
	var data CatalogData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	questions := make([]*models.Question, 0, len(data.Questions))
	for i, rec := range data.Questions {
		q := &models.Question{
			Level:   rec.Level,
			Text:    rec.Text,
			Answer1: rec.Answers[0],
			Answer2: rec.Answers[1],
			Answer3: rec.Answers[2],
			Answer4: rec.Answers[3],
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// ParseText reads blocks of five lines separated by blank lines:
// the question, the correct answer, then three wrong answers.
func ParseText(r io.Reader, level int) ([]*models.Question, error) {
	var (
		questions []*models.Question
		block     []string
		lineNo    int
	)

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		if len(block) != 5 {
			return fmt.Errorf("line %d: question block has %d lines, want 5", lineNo, len(block))
		}
		q := &models.Question{
			Level:   level,
			Text:    block[0],
			Answer1: block[1],
			Answer2: block[2],
			Answer3: block[3],
			Answer4: block[4],
		}
		if err := q.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		questions = append(questions, q)
		block = block[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return questions, nil
}

var trailingNumber = regexp.MustCompile(`(\d+)$`)

func levelFromFileName(path string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := trailingNumber.FindString(base)
	if m == "" {
		return 0, fmt.Errorf("cannot infer question level from file name %q", filepath.Base(path))
	}
	level, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	if level < models.QuestionLevelMin || level > models.QuestionLevelMax {
		return 0, fmt.Errorf("level %d from file name is out of range", level)
	}
	return level, nil
}
