package service

import (
	"context"
	"errors"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fakeQuizStore struct {
	quizzes map[string]*model.Quiz
	saveErr error
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: map[string]*model.Quiz{}}
}

func (s *fakeQuizStore) Create(quiz *model.Quiz) error {
	quiz.ID = model.GenerateUUID()
	quiz.CreatedAt = time.Now()
	copied := *quiz
	s.quizzes[quiz.ID] = &copied
	return nil
}

func (s *fakeQuizStore) FindByIDAndUser(id string, userID uint) (*model.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok || quiz.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (s *fakeQuizStore) ListByDocument(userID uint, documentID string) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range s.quizzes {
		if q.UserID == userID && q.DocumentID == documentID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *fakeQuizStore) Save(quiz *model.Quiz) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := *quiz
	s.quizzes[quiz.ID] = &copied
	return nil
}

func (s *fakeQuizStore) DeleteByIDAndUser(id string, userID uint) (int64, error) {
	quiz, ok := s.quizzes[id]
	if !ok || quiz.UserID != userID {
		return 0, nil
	}
	delete(s.quizzes, id)
	return 1, nil
}

type fakeDocumentFinder struct {
	docs map[string]*model.Document
}

func (f *fakeDocumentFinder) Get(userID uint, documentID string) (*model.Document, error) {
	doc, ok := f.docs[documentID]
	if !ok || doc.UserID != userID {
		return nil, util.ErrDocumentNotFound
	}
	return doc, nil
}

type fakeGenerator struct {
	questions []model.Question
	err       error
}

func (g *fakeGenerator) GenerateQuiz(ctx context.Context, text string, count int) ([]model.Question, error) {
	return g.questions, g.err
}

func threeQuestions() []model.Question {
	return []model.Question{
		{
			Question:      "What is the capital of France?",
			Options:       []string{"Paris", "London", "Berlin", "Madrid"},
			CorrectAnswer: "Paris",
			Difficulty:    model.DifficultyEasy,
		},
		{
			Question:      "What is 2 + 2?",
			Options:       []string{"3", "4", "5", "6"},
			CorrectAnswer: "4",
			Difficulty:    model.DifficultyEasy,
		},
		{
			Question:      "Which planet is largest?",
			Options:       []string{"Earth", "Mars", "Jupiter", "Venus"},
			CorrectAnswer: "Jupiter",
			Difficulty:    model.DifficultyMedium,
		},
	}
}

func newTestQuizService(questions []model.Question, genErr error) (*QuizService, *fakeQuizStore) {
	store := newFakeQuizStore()
	docs := &fakeDocumentFinder{docs: map[string]*model.Document{
		"doc-1": {
			UUIDBase:      model.UUIDBase{ID: "doc-1"},
			UserID:        1,
			Title:         "Biology Notes",
			Status:        model.DocumentReady,
			ExtractedText: "cells divide by mitosis",
		},
		"doc-empty": {
			UUIDBase: model.UUIDBase{ID: "doc-empty"},
			UserID:   1,
			Title:    "Pending",
			Status:   model.DocumentProcessing,
		},
	}}
	svc := NewQuizService(store, docs, &fakeGenerator{questions: questions, err: genErr})
	return svc, store
}

func idx(i int) *int { return &i }

func TestGenerateQuiz(t *testing.T) {
	svc, store := newTestQuizService(threeQuestions(), nil)

	quiz, err := svc.Generate(context.Background(), 1, "doc-1", "", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if quiz.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", quiz.TotalQuestions)
	}
	if quiz.Status != model.QuizCreated {
		t.Errorf("Status = %q, want %q", quiz.Status, model.QuizCreated)
	}
	if quiz.Score != nil || quiz.CompletedAt != nil {
		t.Error("new quiz should have no score or completion time")
	}
	if quiz.Title != "Quiz: Biology Notes" {
		t.Errorf("default title = %q", quiz.Title)
	}
	if _, err := store.FindByIDAndUser(quiz.ID, 1); err != nil {
		t.Errorf("quiz not persisted: %v", err)
	}
}

func TestGenerateQuizDocumentNotReady(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)

	if _, err := svc.Generate(context.Background(), 1, "doc-empty", "", 3); !errors.Is(err, util.ErrDocumentNotReady) {
		t.Errorf("err = %v, want ErrDocumentNotReady", err)
	}
}

func TestGenerateQuizOtherUsersDocument(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)

	if _, err := svc.Generate(context.Background(), 2, "doc-1", "", 3); !errors.Is(err, util.ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestGenerateQuizEmptyGeneration(t *testing.T) {
	svc, store := newTestQuizService(nil, nil)

	if _, err := svc.Generate(context.Background(), 1, "doc-1", "", 3); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
	if len(store.quizzes) != 0 {
		t.Error("empty generation must not persist a quiz")
	}
}

func TestGetQuizOwnerScoped(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, err := svc.Generate(context.Background(), 1, "doc-1", "", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.Get(1, quiz.ID); err != nil {
		t.Errorf("owner Get: %v", err)
	}
	if _, err := svc.Get(2, quiz.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("foreign Get err = %v, want ErrQuizNotFound", err)
	}
	if _, err := svc.Get(1, "missing"); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("missing Get err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitGradesAnswers(t *testing.T) {
	svc, store := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	result, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(0), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(1), SelectedAnswer: "5"},
		{QuestionIndex: idx(2), SelectedAnswer: "Jupiter"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Score != 2 {
		t.Errorf("Score = %d, want 2", result.Score)
	}
	if result.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", result.TotalQuestions)
	}
	if want := float64(2) / 3 * 100; result.Percentage != want {
		t.Errorf("Percentage = %v, want %v", result.Percentage, want)
	}

	stored, _ := store.FindByIDAndUser(quiz.ID, 1)
	if !stored.Completed() {
		t.Error("quiz should be completed after submission")
	}
	if stored.CompletedAt == nil || stored.Score == nil || *stored.Score != 2 {
		t.Error("completion fields not persisted")
	}
}

func TestSubmitCaseSensitiveGrading(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	result, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(0), SelectedAnswer: "paris"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 for case mismatch", result.Score)
	}
}

func TestSubmitDiscardsOutOfRangeIndexes(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	result, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(-1), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(0), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(3), SelectedAnswer: "Jupiter"},
		{QuestionIndex: idx(99), SelectedAnswer: "4"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(result.UserAnswers) != 1 {
		t.Fatalf("recorded %d answers, want 1", len(result.UserAnswers))
	}
	if result.UserAnswers[0].QuestionIndex != 0 {
		t.Errorf("kept index %d, want 0", result.UserAnswers[0].QuestionIndex)
	}
	if result.Score != 1 {
		t.Errorf("Score = %d, want 1", result.Score)
	}
}

func TestSubmitDuplicateIndexLastWins(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	result, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(0), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(1), SelectedAnswer: "4"},
		{QuestionIndex: idx(0), SelectedAnswer: "London"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(result.UserAnswers) != 2 {
		t.Fatalf("recorded %d answers, want 2", len(result.UserAnswers))
	}
	// Position of the first occurrence, value of the last.
	if result.UserAnswers[0].QuestionIndex != 0 || result.UserAnswers[0].SelectedAnswer != "London" {
		t.Errorf("first slot = %+v, want index 0 with London", result.UserAnswers[0])
	}
	if result.UserAnswers[0].IsCorrect {
		t.Error("replaced answer should be graded, not the original")
	}
	if result.Score != 1 {
		t.Errorf("Score = %d, want 1", result.Score)
	}
}

func TestSubmitRetakeReplacesWholesale(t *testing.T) {
	svc, store := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	if _, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(0), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(1), SelectedAnswer: "4"},
		{QuestionIndex: idx(2), SelectedAnswer: "Jupiter"},
	}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	result, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(1), SelectedAnswer: "3"},
	})
	if err != nil {
		t.Fatalf("retake Submit: %v", err)
	}

	if result.Score != 0 {
		t.Errorf("retake Score = %d, want 0", result.Score)
	}
	if len(result.UserAnswers) != 1 {
		t.Errorf("retake recorded %d answers, want 1", len(result.UserAnswers))
	}

	stored, _ := store.FindByIDAndUser(quiz.ID, 1)
	if len(stored.UserAnswers) != 1 || *stored.Score != 0 {
		t.Error("earlier submission leaked into the stored state")
	}
}

func TestSubmitEmptyAnswerSet(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	result, err := svc.Submit(1, quiz.ID, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 0 || result.Percentage != 0 {
		t.Errorf("empty submission scored %d (%v%%)", result.Score, result.Percentage)
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	svc, store := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	store.saveErr = errors.New("connection reset")
	if _, err := svc.Submit(1, quiz.ID, nil); err == nil {
		t.Error("expected save error to propagate")
	}
}

func TestSubmitUnknownQuiz(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)

	if _, err := svc.Submit(1, "missing", nil); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestResultsRequiresCompletion(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	if _, err := svc.Results(1, quiz.ID); !errors.Is(err, util.ErrQuizNotCompleted) {
		t.Errorf("err = %v, want ErrQuizNotCompleted", err)
	}
}

func TestResultsMergesAnswers(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "My Quiz", 3)

	if _, err := svc.Submit(1, quiz.ID, []AnswerInput{
		{QuestionIndex: idx(0), SelectedAnswer: "Paris"},
		{QuestionIndex: idx(2), SelectedAnswer: "Mars"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	results, err := svc.Results(1, quiz.ID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}

	if len(results.Results) != 3 {
		t.Fatalf("got %d rows, want one per question", len(results.Results))
	}

	if results.Results[0].SelectedAnswer == nil || *results.Results[0].SelectedAnswer != "Paris" {
		t.Error("row 0 should carry the selected answer")
	}
	if !results.Results[0].IsCorrect {
		t.Error("row 0 should be correct")
	}

	if results.Results[1].SelectedAnswer != nil {
		t.Error("unanswered row 1 should have nil selection")
	}
	if results.Results[1].IsCorrect {
		t.Error("unanswered row 1 should not be correct")
	}

	if results.Results[2].SelectedAnswer == nil || *results.Results[2].SelectedAnswer != "Mars" {
		t.Error("row 2 should carry the selected answer")
	}
	if results.Results[2].IsCorrect {
		t.Error("row 2 should be incorrect")
	}

	if results.Quiz.Score != 1 || results.Quiz.TotalQuestions != 3 {
		t.Errorf("summary = %+v", results.Quiz)
	}
	if results.Quiz.Title != "My Quiz" {
		t.Errorf("summary title = %q", results.Quiz.Title)
	}
	if results.Quiz.Document.ID != "doc-1" || results.Quiz.Document.Title != "Biology Notes" {
		t.Errorf("document ref = %+v", results.Quiz.Document)
	}
}

func TestResultsOwnerScoped(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)
	if _, err := svc.Submit(1, quiz.ID, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Results(2, quiz.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestDeleteQuiz(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	if err := svc.Delete(2, quiz.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("foreign delete err = %v, want ErrQuizNotFound", err)
	}
	if err := svc.Delete(1, quiz.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := svc.Delete(1, quiz.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Errorf("repeat delete err = %v, want ErrQuizNotFound", err)
	}
}

func TestListFiltersByOwnerAndDocument(t *testing.T) {
	svc, _ := newTestQuizService(threeQuestions(), nil)
	quiz, _ := svc.Generate(context.Background(), 1, "doc-1", "", 3)

	mine, err := svc.List(1, "doc-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != quiz.ID {
		t.Errorf("List = %+v", mine)
	}

	theirs, err := svc.List(2, "doc-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("foreign List returned %d quizzes", len(theirs))
	}
}
