package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/repository"
	"study_aid_backend/internal/util"
	"study_aid_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DocumentService struct {
	Documents *repository.DocumentRepository
	Storage   *StorageService
	AI        *AIService
}

func NewDocumentService(documents *repository.DocumentRepository, storage *StorageService, ai *AIService) *DocumentService {
	return &DocumentService{
		Documents: documents,
		Storage:   storage,
		AI:        ai,
	}
}

// Upload stores the PDF, extracts its text, and persists the document record.
// The extracted text is what every downstream generation call works from.
func (s *DocumentService) Upload(ctx context.Context, userID uint, title string, file *multipart.FileHeader) (*model.Document, error) {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF documents are supported")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	content, err := util.ExtractPDFText(tmp.Name())
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	storedName := fmt.Sprintf("documents/%d/%s-%s", userID, model.GenerateUUID(), filepath.Base(file.Filename))
	fileURL, err := s.Storage.UploadFile(ctx, storedName, tmp.Name(), "application/pdf")
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		UserID:        userID,
		Title:         title,
		FileName:      storedName,
		FileURL:       fileURL,
		FileSize:      file.Size,
		PageCount:     content.PageCount,
		ExtractedText: content.Text,
		Status:        model.DocumentReady,
	}

	if err := s.Documents.Create(doc); err != nil {
		// Best effort: do not leave an orphaned object behind.
		if delErr := s.Storage.Delete(ctx, storedName); delErr != nil {
			logger.Log.Warn("orphaned upload cleanup failed",
				zap.String("file", storedName), zap.Error(delErr))
		}
		return nil, err
	}

	return doc, nil
}

func (s *DocumentService) List(userID uint) ([]model.Document, error) {
	return s.Documents.ListByUser(userID)
}

func (s *DocumentService) Get(userID uint, documentID string) (*model.Document, error) {
	doc, err := s.Documents.FindByIDAndUser(documentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID uint, documentID string) error {
	doc, err := s.Get(userID, documentID)
	if err != nil {
		return err
	}

	rows, err := s.Documents.DeleteByIDAndUser(documentID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return util.ErrDocumentNotFound
	}

	if err := s.Storage.Delete(ctx, doc.FileName); err != nil {
		logger.Log.Warn("stored file removal failed",
			zap.String("file", doc.FileName), zap.Error(err))
	}
	if s.AI != nil {
		s.AI.InvalidateSummary(ctx, documentID)
	}

	return nil
}
