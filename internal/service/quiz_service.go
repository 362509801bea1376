package service

import (
	"context"
	"errors"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"study_aid_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// QuizStore is the persistence boundary of the lifecycle engine. The gorm
// repository implements it in production; tests use an in-memory fake.
type QuizStore interface {
	Create(quiz *model.Quiz) error
	FindByIDAndUser(id string, userID uint) (*model.Quiz, error)
	ListByDocument(userID uint, documentID string) ([]model.Quiz, error)
	Save(quiz *model.Quiz) error
	DeleteByIDAndUser(id string, userID uint) (int64, error)
}

// QuizGenerator produces the question set a quiz is created with. Output is
// already structurally validated (4 distinct options, correct answer among
// them); the engine does not re-check it at submission or read time.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, text string, count int) ([]model.Question, error)
}

// DocumentFinder resolves the source document, owner-scoped.
type DocumentFinder interface {
	Get(userID uint, documentID string) (*model.Document, error)
}

type QuizService struct {
	Quizzes   QuizStore
	Documents DocumentFinder
	Generator QuizGenerator
}

func NewQuizService(quizzes QuizStore, documents DocumentFinder, generator QuizGenerator) *QuizService {
	return &QuizService{
		Quizzes:   quizzes,
		Documents: documents,
		Generator: generator,
	}
}

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 25
)

// Generate creates a quiz from a document's extracted text. The whole quiz is
// persisted in one insert: either it exists with its complete question set or
// not at all. Generation that yields no valid questions fails here, so
// zero-question quizzes never reach the store.
func (s *QuizService) Generate(ctx context.Context, userID uint, documentID, title string, count int) (*model.Quiz, error) {
	doc, err := s.Documents.Get(userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentReady || doc.ExtractedText == "" {
		return nil, util.ErrDocumentNotReady
	}

	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	questions, err := s.Generator.GenerateQuiz(ctx, doc.ExtractedText, count)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrGenerationFailed
	}

	if title == "" {
		title = "Quiz: " + doc.Title
	}

	quiz := &model.Quiz{
		UserID:         userID,
		DocumentID:     documentID,
		Title:          title,
		Questions:      questions,
		TotalQuestions: len(questions),
		UserAnswers:    model.AnswerList{},
		Status:         model.QuizCreated,
	}

	if err := s.Quizzes.Create(quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

// QuizSummary is the list-view shape; it omits the question bodies.
type QuizSummary struct {
	ID             string           `json:"id"`
	DocumentID     string           `json:"documentId"`
	Title          string           `json:"title"`
	TotalQuestions int              `json:"totalQuestions"`
	Status         model.QuizStatus `json:"status"`
	Score          *int             `json:"score,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// List returns the owner's quizzes for one document, newest first. An empty
// result is not an error.
func (s *QuizService) List(userID uint, documentID string) ([]QuizSummary, error) {
	quizzes, err := s.Quizzes.ListByDocument(userID, documentID)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:             q.ID,
			DocumentID:     q.DocumentID,
			Title:          q.Title,
			TotalQuestions: q.TotalQuestions,
			Status:         q.Status,
			Score:          q.Score,
			CompletedAt:    q.CompletedAt,
			CreatedAt:      q.CreatedAt,
		})
	}
	return summaries, nil
}

// Get returns one quiz by id, owner-scoped. A quiz that exists but belongs to
// someone else is reported as not found so existence never leaks.
func (s *QuizService) Get(userID uint, quizID string) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByIDAndUser(quizID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// AnswerInput is one proposed answer in a submission. QuestionIndex is a
// pointer so a missing field fails binding instead of defaulting to 0.
type AnswerInput struct {
	QuestionIndex  *int   `json:"questionIndex" binding:"required"`
	SelectedAnswer string `json:"selectedAnswer" binding:"required"`
}

// SubmitResult is the submission response shape.
type SubmitResult struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	UserAnswers    model.AnswerList `json:"userAnswers"`
	Percentage     float64          `json:"percentage"`
}

// Submit grades a set of proposed answers and records the outcome.
//
// Answers with an index outside the question range are silently discarded.
// When the same index appears more than once in a submission, the later entry
// replaces the earlier one, so a question can never count twice. Stored
// answers, score, and completion are replaced wholesale on every call:
// retaking a quiz is allowed and the latest submission wins.
func (s *QuizService) Submit(userID uint, quizID string, answers []AnswerInput) (*SubmitResult, error) {
	quiz, err := s.Get(userID, quizID)
	if err != nil {
		monitoring.QuizSubmissions.WithLabelValues("not_found").Inc()
		return nil, err
	}

	now := time.Now()
	graded := gradeAnswers(quiz.Questions, answers, now)
	score := 0
	for _, a := range graded {
		if a.IsCorrect {
			score++
		}
	}

	quiz.UserAnswers = graded
	quiz.Score = &score
	quiz.Status = model.QuizCompleted
	quiz.CompletedAt = &now

	if err := s.Quizzes.Save(quiz); err != nil {
		monitoring.QuizSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues("ok").Inc()
	return &SubmitResult{
		Score:          score,
		TotalQuestions: quiz.TotalQuestions,
		UserAnswers:    graded,
		Percentage:     percentage(score, quiz.TotalQuestions),
	}, nil
}

// gradeAnswers resolves each proposed answer against the question set.
// Correctness is exact string equality, case- and whitespace-sensitive.
func gradeAnswers(questions model.QuestionList, answers []AnswerInput, at time.Time) model.AnswerList {
	graded := make(model.AnswerList, 0, len(answers))
	position := make(map[int]int, len(answers))

	for _, input := range answers {
		idx := *input.QuestionIndex
		if idx < 0 || idx >= len(questions) {
			continue
		}

		answer := model.Answer{
			QuestionIndex:  idx,
			SelectedAnswer: input.SelectedAnswer,
			IsCorrect:      questions[idx].CorrectAnswer == input.SelectedAnswer,
			AnsweredAt:     at,
		}

		if pos, seen := position[idx]; seen {
			graded[pos] = answer
			continue
		}
		position[idx] = len(graded)
		graded = append(graded, answer)
	}

	return graded
}

func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// QuestionResult is one row of the merged results view.
type QuestionResult struct {
	Question       string           `json:"question"`
	Options        []string         `json:"options"`
	CorrectAnswer  string           `json:"correctAnswer"`
	Explanation    string           `json:"explanation"`
	Difficulty     model.Difficulty `json:"difficulty"`
	SelectedAnswer *string          `json:"selectedAnswer"`
	IsCorrect      bool             `json:"isCorrect"`
}

type ResultDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ResultSummary struct {
	Title          string         `json:"title"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Document       ResultDocument `json:"document"`
	CompletedAt    time.Time      `json:"completedAt"`
}

type QuizResults struct {
	Quiz    ResultSummary    `json:"quiz"`
	Results []QuestionResult `json:"results"`
}

// Results merges the immutable questions with the recorded answers: a left
// join driven by the question sequence, so the output always has exactly
// TotalQuestions rows in original order, with unanswered questions carrying a
// nil selection and isCorrect false.
func (s *QuizService) Results(userID uint, quizID string) (*QuizResults, error) {
	quiz, err := s.Get(userID, quizID)
	if err != nil {
		return nil, err
	}

	if !quiz.Completed() {
		return nil, util.ErrQuizNotCompleted
	}

	byIndex := make(map[int]model.Answer, len(quiz.UserAnswers))
	for _, a := range quiz.UserAnswers {
		byIndex[a.QuestionIndex] = a
	}

	results := make([]QuestionResult, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		row := QuestionResult{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
		}
		if a, ok := byIndex[i]; ok {
			selected := a.SelectedAnswer
			row.SelectedAnswer = &selected
			row.IsCorrect = a.IsCorrect
		}
		results = append(results, row)
	}

	summary := ResultSummary{
		Title:          quiz.Title,
		TotalQuestions: quiz.TotalQuestions,
		Document:       ResultDocument{ID: quiz.DocumentID},
	}
	if quiz.Score != nil {
		summary.Score = *quiz.Score
	}
	if quiz.CompletedAt != nil {
		summary.CompletedAt = *quiz.CompletedAt
	}

	// The source document may have been deleted since; the reference then
	// carries the id alone.
	if doc, err := s.Documents.Get(userID, quiz.DocumentID); err == nil {
		summary.Document.Title = doc.Title
	}

	return &QuizResults{Quiz: summary, Results: results}, nil
}

// Delete removes the quiz record entirely. A repeat call reports not found.
func (s *QuizService) Delete(userID uint, quizID string) error {
	rows, err := s.Quizzes.DeleteByIDAndUser(quizID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return util.ErrQuizNotFound
	}
	return nil
}
