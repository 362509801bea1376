package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"study_aid_backend/internal/config"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"study_aid_backend/pkg/logger"
	"study_aid_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	quizTextLimit    = 15000
	summaryTextLimit = 20000
	explainTextLimit = 10000

	defaultSummaryCacheTTL = 6 * time.Hour
)

// AIService is the generation adapter. It is constructed once and injected
// into the services that need it, so tests can substitute a double.
type AIService struct {
	provider ChatProvider
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewAIService(provider ChatProvider, cache *redis.Client, cfg config.AIConfig) *AIService {
	ttl := cfg.SummaryCacheTTL
	if ttl <= 0 {
		ttl = defaultSummaryCacheTTL
	}
	return &AIService{
		provider: provider,
		cache:    cache,
		cacheTTL: ttl,
	}
}

// GenerateQuiz asks the model for a raw JSON array of multiple-choice
// questions and keeps only the structurally valid ones: non-empty prompt,
// exactly 4 distinct options, and a correct answer that appears among them.
// The lifecycle engine relies on this validation and does not repeat it.
func (s *AIService) GenerateQuiz(ctx context.Context, text string, count int) ([]model.Question, error) {
	prompt := fmt.Sprintf(`Generate a quiz with exactly %d multiple-choice questions from the following text.
Return the response ONLY as a raw JSON array of objects. Do not wrap it in markdown code blocks or any other text.

Each object in the array must follow this structure:
{
  "question": "The question text",
  "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
  "correctAnswer": "The correct option text (must match exactly one of the options)",
  "explanation": "Brief explanation of why the answer is correct",
  "difficulty": "easy", "medium", or "hard"
}

Text:
%s`, count, truncateText(text, quizTextLimit))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("quiz", "error").Inc()
		logger.Log.Error("quiz generation request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	questions, err := parseQuizResponse(raw)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("quiz", "error").Inc()
		logger.Log.Error("quiz generation returned unusable payload", zap.Error(err))
		return nil, err
	}

	monitoring.AIGenerations.WithLabelValues("quiz", "ok").Inc()
	return questions, nil
}

// GenerateFlashcards parses the Q:/A:/D: plain-text card format.
func (s *AIService) GenerateFlashcards(ctx context.Context, text string, count int) ([]model.Flashcard, error) {
	prompt := fmt.Sprintf(`Generate exactly %d educational flashcards from the following text.
Format each flashcard as:
Q: [Clear, specific question]
A: [Concise, accurate answer]
D: [Difficulty level: easy, medium, or hard]

Separate each flashcard with " --- "

Text:
%s`, count, truncateText(text, quizTextLimit))

	raw, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("flashcards", "error").Inc()
		logger.Log.Error("flashcard generation request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	cards := parseFlashcardResponse(raw, count)
	if len(cards) == 0 {
		monitoring.AIGenerations.WithLabelValues("flashcards", "error").Inc()
		return nil, fmt.Errorf("%w: no valid flashcards in response", util.ErrGenerationFailed)
	}

	monitoring.AIGenerations.WithLabelValues("flashcards", "ok").Inc()
	return cards, nil
}

// Summarize returns a cached summary when one exists for the document.
func (s *AIService) Summarize(ctx context.Context, documentID, text string) (string, error) {
	cacheKey := "summary:" + documentID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		}
	}

	prompt := fmt.Sprintf(`Provide a concise summary of the following text, highlighting the key points and main ideas, and important points.
Keep the summary clear and structured.

Text:
%s`, truncateText(text, summaryTextLimit))

	summary, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("summary", "error").Inc()
		logger.Log.Error("summary generation request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL).Err(); err != nil {
			logger.Log.Warn("summary cache write failed", zap.Error(err))
		}
	}

	monitoring.AIGenerations.WithLabelValues("summary", "ok").Inc()
	return summary, nil
}

// InvalidateSummary drops the cached summary when its document goes away.
func (s *AIService) InvalidateSummary(ctx context.Context, documentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "summary:"+documentID).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// Chat answers a question grounded on document text.
func (s *AIService) Chat(ctx context.Context, question, documentText string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following document context, analyze the context and answer the user's question.
If the answer is not in the context, say so.

Context:
%s

Question: %s
Answer:`, truncateText(documentText, summaryTextLimit), question)

	answer, err := s.provider.Complete(ctx, "You are a study assistant helping a student understand their documents.", prompt)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("chat", "error").Inc()
		logger.Log.Error("chat request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	monitoring.AIGenerations.WithLabelValues("chat", "ok").Inc()
	return answer, nil
}

// Explain produces an educational explanation of a concept using document
// text as context.
func (s *AIService) Explain(ctx context.Context, concept, documentText string) (string, error) {
	prompt := fmt.Sprintf(`Explain the concept of %s based on the following context.
Provide a clear, educational explanation that's easy to understand.
Include examples if relevant.

Context:
%s`, concept, truncateText(documentText, explainTextLimit))

	explanation, err := s.provider.Complete(ctx, "", prompt)
	if err != nil {
		monitoring.AIGenerations.WithLabelValues("explain", "error").Inc()
		logger.Log.Error("explain request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
	}

	monitoring.AIGenerations.WithLabelValues("explain", "ok").Inc()
	return explanation, nil
}

// parseQuizResponse cleans up markdown fences the model may emit despite
// instructions and filters out structurally invalid questions.
func parseQuizResponse(raw string) ([]model.Question, error) {
	cleaned := stripCodeFences(raw)

	var questions []model.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: unparseable quiz payload: %v", util.ErrGenerationFailed, err)
	}

	valid := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if !validQuestion(q) {
			continue
		}
		q.Difficulty = normalizeDifficulty(q.Difficulty)
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no valid questions in response", util.ErrGenerationFailed)
	}

	return valid, nil
}

func validQuestion(q model.Question) bool {
	if q.Question == "" || q.CorrectAnswer == "" || len(q.Options) != 4 {
		return false
	}

	seen := make(map[string]bool, 4)
	answerPresent := false
	for _, opt := range q.Options {
		if opt == "" || seen[opt] {
			return false
		}
		seen[opt] = true
		if opt == q.CorrectAnswer {
			answerPresent = true
		}
	}
	return answerPresent
}

func normalizeDifficulty(d model.Difficulty) model.Difficulty {
	switch model.Difficulty(strings.ToLower(string(d))) {
	case model.DifficultyEasy:
		return model.DifficultyEasy
	case model.DifficultyHard:
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}

func parseFlashcardResponse(raw string, count int) []model.Flashcard {
	cards := []model.Flashcard{}
	for _, block := range strings.Split(raw, "---") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		card := model.Flashcard{Difficulty: model.DifficultyMedium}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "Q:"):
				card.Question = strings.TrimSpace(line[2:])
			case strings.HasPrefix(line, "A:"):
				card.Answer = strings.TrimSpace(line[2:])
			case strings.HasPrefix(line, "D:"):
				card.Difficulty = normalizeDifficulty(model.Difficulty(strings.TrimSpace(line[2:])))
			}
		}

		if card.Question != "" && card.Answer != "" {
			cards = append(cards, card)
		}
	}

	if len(cards) > count {
		cards = cards[:count]
	}
	return cards
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```json")
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
