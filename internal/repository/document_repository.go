package repository

import (
	"study_aid_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

// FindByIDAndUser scopes every lookup to the owning user. A document owned by
// someone else is indistinguishable from a missing one.
func (r *DocumentRepository) FindByIDAndUser(id string, userID uint) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	return &doc, err
}

func (r *DocumentRepository) ListByUser(userID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Where("user_id = ?", userID).
		Omit("extracted_text").
		Order("created_at desc").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	return r.DB.Save(doc).Error
}

// DeleteByIDAndUser reports how many rows were removed so callers can tell a
// repeated delete from a successful one.
func (r *DocumentRepository) DeleteByIDAndUser(id string, userID uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Document{})
	return res.RowsAffected, res.Error
}

func (r *DocumentRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Document{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
