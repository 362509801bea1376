package service

import (
	"context"
	"errors"
	"strings"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"study_aid_backend/pkg/logger"
	"testing"

	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func testAIConfig() config.AIConfig {
	return config.AIConfig{Provider: "openai", Model: "test-model"}
}

type stubProvider struct {
	response string
	err      error
}

func (p *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return p.response, p.err
}

const validQuizJSON = `[
	{
		"question": "What is photosynthesis?",
		"options": ["A", "B", "C", "D"],
		"correctAnswer": "B",
		"explanation": "Plants convert light to energy.",
		"difficulty": "easy"
	}
]`

func TestParseQuizResponsePlain(t *testing.T) {
	questions, err := parseQuizResponse(validQuizJSON)
	if err != nil {
		t.Fatalf("parseQuizResponse: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].CorrectAnswer != "B" {
		t.Errorf("CorrectAnswer = %q", questions[0].CorrectAnswer)
	}
}

func TestParseQuizResponseStripsFences(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + validQuizJSON + "\n```",
		"```\n" + validQuizJSON + "\n```",
		"  \n```json\n" + validQuizJSON + "\n```\n  ",
	} {
		if _, err := parseQuizResponse(raw); err != nil {
			t.Errorf("fenced payload rejected: %v\nraw: %q", err, raw)
		}
	}
}

func TestParseQuizResponseFiltersInvalid(t *testing.T) {
	raw := `[
		{"question": "Kept", "options": ["A", "B", "C", "D"], "correctAnswer": "A"},
		{"question": "", "options": ["A", "B", "C", "D"], "correctAnswer": "A"},
		{"question": "Three options", "options": ["A", "B", "C"], "correctAnswer": "A"},
		{"question": "Answer missing", "options": ["A", "B", "C", "D"], "correctAnswer": "E"},
		{"question": "Duplicate options", "options": ["A", "A", "C", "D"], "correctAnswer": "A"},
		{"question": "Empty option", "options": ["A", "", "C", "D"], "correctAnswer": "A"}
	]`

	questions, err := parseQuizResponse(raw)
	if err != nil {
		t.Fatalf("parseQuizResponse: %v", err)
	}
	if len(questions) != 1 || questions[0].Question != "Kept" {
		t.Errorf("filter kept %d questions: %+v", len(questions), questions)
	}
	if questions[0].Difficulty != model.DifficultyMedium {
		t.Errorf("missing difficulty should default to medium, got %q", questions[0].Difficulty)
	}
}

func TestParseQuizResponseAllInvalid(t *testing.T) {
	raw := `[{"question": "Bad", "options": ["A"], "correctAnswer": "A"}]`
	if _, err := parseQuizResponse(raw); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestParseQuizResponseNotJSON(t *testing.T) {
	if _, err := parseQuizResponse("Sure! Here are your questions:"); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := map[model.Difficulty]model.Difficulty{
		"easy":    model.DifficultyEasy,
		"EASY":    model.DifficultyEasy,
		"Hard":    model.DifficultyHard,
		"medium":  model.DifficultyMedium,
		"extreme": model.DifficultyMedium,
		"":        model.DifficultyMedium,
	}
	for in, want := range cases {
		if got := normalizeDifficulty(in); got != want {
			t.Errorf("normalizeDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFlashcardResponse(t *testing.T) {
	raw := `Q: What is a cell?
A: The basic unit of life.
D: easy
---
Q: What is mitosis?
A: Cell division producing identical cells.
D: hard
---
Q: Orphan question with no answer
---
Some preamble the model added`

	cards := parseFlashcardResponse(raw, 10)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].Question != "What is a cell?" || cards[0].Answer != "The basic unit of life." {
		t.Errorf("card 0 = %+v", cards[0])
	}
	if cards[0].Difficulty != model.DifficultyEasy || cards[1].Difficulty != model.DifficultyHard {
		t.Errorf("difficulties = %q, %q", cards[0].Difficulty, cards[1].Difficulty)
	}
}

func TestParseFlashcardResponseCapsCount(t *testing.T) {
	var blocks []string
	for i := 0; i < 5; i++ {
		blocks = append(blocks, "Q: q\nA: a")
	}
	cards := parseFlashcardResponse(strings.Join(blocks, "\n---\n"), 3)
	if len(cards) != 3 {
		t.Errorf("got %d cards, want cap of 3", len(cards))
	}
}

func TestParseFlashcardResponseDefaultsDifficulty(t *testing.T) {
	cards := parseFlashcardResponse("Q: q\nA: a", 5)
	if len(cards) != 1 || cards[0].Difficulty != model.DifficultyMedium {
		t.Errorf("cards = %+v", cards)
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("hello", 10); got != "hello" {
		t.Errorf("short text changed: %q", got)
	}
	if got := truncateText("hello world", 5); got != "hello" {
		t.Errorf("truncated = %q", got)
	}
}

func TestGenerateQuizServiceFiltersAndWraps(t *testing.T) {
	svc := NewAIService(&stubProvider{response: "```json\n" + validQuizJSON + "\n```"}, nil, testAIConfig())

	questions, err := svc.GenerateQuiz(context.Background(), "some text", 5)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("got %d questions", len(questions))
	}
}

func TestGenerateQuizProviderError(t *testing.T) {
	svc := NewAIService(&stubProvider{err: errors.New("timeout")}, nil, testAIConfig())

	if _, err := svc.GenerateQuiz(context.Background(), "text", 5); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerateFlashcardsEmptyResponse(t *testing.T) {
	svc := NewAIService(&stubProvider{response: "I cannot do that."}, nil, testAIConfig())

	if _, err := svc.GenerateFlashcards(context.Background(), "text", 5); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}
