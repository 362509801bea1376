package repository

import (
	"study_aid_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindByIDAndUser filters by (id, user_id) on every lookup; cross-user access
// surfaces as gorm.ErrRecordNotFound, never as the foreign record.
func (r *QuizRepository) FindByIDAndUser(id string, userID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) ListByDocument(userID uint, documentID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("user_id = ? AND document_id = ?", userID, documentID).
		Order("created_at desc").
		Find(&quizzes).Error
	return quizzes, err
}

// Save persists the whole record in a single UPDATE; submissions rely on this
// single-record atomicity.
func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) DeleteByIDAndUser(id string, userID uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Quiz{})
	return res.RowsAffected, res.Error
}

// CompletionStats aggregates per-owner quiz figures for the progress view.
type CompletionStats struct {
	Taken        int64
	Completed    int64
	AveragePct   float64
	TotalCorrect int64
}

func (r *QuizRepository) StatsByUser(userID uint) (*CompletionStats, error) {
	stats := &CompletionStats{}

	if err := r.DB.Model(&model.Quiz{}).
		Where("user_id = ?", userID).
		Count(&stats.Taken).Error; err != nil {
		return nil, err
	}

	if err := r.DB.Model(&model.Quiz{}).
		Where("user_id = ? AND status = ?", userID, model.QuizCompleted).
		Count(&stats.Completed).Error; err != nil {
		return nil, err
	}

	if stats.Completed == 0 {
		return stats, nil
	}

	row := r.DB.Model(&model.Quiz{}).
		Select("COALESCE(AVG(score * 100.0 / total_questions), 0), COALESCE(SUM(score), 0)").
		Where("user_id = ? AND status = ? AND total_questions > 0", userID, model.QuizCompleted).
		Row()
	if err := row.Scan(&stats.AveragePct, &stats.TotalCorrect); err != nil {
		return nil, err
	}

	return stats, nil
}
