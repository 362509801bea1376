package service

import (
	"study_aid_backend/internal/repository"
)

type ProgressService struct {
	Documents  *repository.DocumentRepository
	Quizzes    *repository.QuizRepository
	Flashcards *repository.FlashcardRepository
}

func NewProgressService(documents *repository.DocumentRepository, quizzes *repository.QuizRepository, flashcards *repository.FlashcardRepository) *ProgressService {
	return &ProgressService{
		Documents:  documents,
		Quizzes:    quizzes,
		Flashcards: flashcards,
	}
}

type ProgressOverview struct {
	Documents     int64   `json:"documents"`
	QuizzesTaken  int64   `json:"quizzesTaken"`
	QuizzesDone   int64   `json:"quizzesCompleted"`
	AverageScore  float64 `json:"averageScore"`
	TotalCorrect  int64   `json:"totalCorrectAnswers"`
	FlashcardSets int64   `json:"flashcardSets"`
	CardReviews   int64   `json:"cardReviews"`
}

// Overview aggregates the user's study activity across documents, quizzes,
// and flashcards.
func (s *ProgressService) Overview(userID uint) (*ProgressOverview, error) {
	docs, err := s.Documents.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	quizStats, err := s.Quizzes.StatsByUser(userID)
	if err != nil {
		return nil, err
	}

	sets, reviews, err := s.Flashcards.StatsByUser(userID)
	if err != nil {
		return nil, err
	}

	return &ProgressOverview{
		Documents:     docs,
		QuizzesTaken:  quizStats.Taken,
		QuizzesDone:   quizStats.Completed,
		AverageScore:  quizStats.AveragePct,
		TotalCorrect:  quizStats.TotalCorrect,
		FlashcardSets: sets,
		CardReviews:   reviews,
	}, nil
}
