package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuizStatus is the explicit lifecycle state of a quiz. A quiz is created with
// its full question set and becomes completed on the first submission;
// resubmission keeps the status completed and overwrites the recorded answers.
type QuizStatus string

const (
	QuizCreated   QuizStatus = "created"
	QuizCompleted QuizStatus = "completed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is immutable once stored on a quiz.
type Question struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Answer records one graded user answer. QuestionIndex points into the quiz's
// question sequence as it was at submission time.
type Answer struct {
	QuestionIndex  int       `json:"questionIndex"`
	SelectedAnswer string    `json:"selectedAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// QuestionList and AnswerList are stored as JSON columns.
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type AnswerList []Answer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AnswerList{})
	}
	return json.Marshal(l)
}

func (l *AnswerList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	UserID         uint         `gorm:"index:idx_quiz_owner_document;type:bigint unsigned;not null" json:"userId"`
	DocumentID     string       `gorm:"index:idx_quiz_owner_document;type:varchar(36);not null" json:"documentId"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	Questions      QuestionList `gorm:"type:json" json:"questions"`
	TotalQuestions int          `gorm:"not null" json:"totalQuestions"`
	UserAnswers    AnswerList   `gorm:"type:json" json:"userAnswers"`
	Score          *int         `json:"score,omitempty"`
	Status         QuizStatus   `gorm:"size:20;default:'created'" json:"status"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Completed reports whether the quiz has at least one recorded submission.
func (q *Quiz) Completed() bool {
	return q.Status == QuizCompleted
}
