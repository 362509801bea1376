package repository

import (
	"study_aid_backend/internal/model"

	"gorm.io/gorm"
)

type FlashcardRepository struct {
	DB *gorm.DB
}

func NewFlashcardRepository(db *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{DB: db}
}

func (r *FlashcardRepository) Create(set *model.FlashcardSet) error {
	return r.DB.Create(set).Error
}

func (r *FlashcardRepository) FindByIDAndUser(id string, userID uint) (*model.FlashcardSet, error) {
	var set model.FlashcardSet
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&set).Error
	return &set, err
}

func (r *FlashcardRepository) ListByDocument(userID uint, documentID string) ([]model.FlashcardSet, error) {
	var sets []model.FlashcardSet
	err := r.DB.Where("user_id = ? AND document_id = ?", userID, documentID).
		Order("created_at desc").
		Find(&sets).Error
	return sets, err
}

func (r *FlashcardRepository) Save(set *model.FlashcardSet) error {
	return r.DB.Save(set).Error
}

func (r *FlashcardRepository) DeleteByIDAndUser(id string, userID uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.FlashcardSet{})
	return res.RowsAffected, res.Error
}

// ReviewStats sums card review counters across an owner's sets.
func (r *FlashcardRepository) StatsByUser(userID uint) (sets int64, reviews int64, err error) {
	if err = r.DB.Model(&model.FlashcardSet{}).
		Where("user_id = ?", userID).
		Count(&sets).Error; err != nil {
		return 0, 0, err
	}

	var all []model.FlashcardSet
	if err = r.DB.Where("user_id = ?", userID).Find(&all).Error; err != nil {
		return 0, 0, err
	}
	for _, set := range all {
		for _, card := range set.Cards {
			reviews += int64(card.ReviewCount)
		}
	}
	return sets, reviews, nil
}
