package service

import (
	"context"
	"errors"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type FlashcardStore interface {
	Create(set *model.FlashcardSet) error
	FindByIDAndUser(id string, userID uint) (*model.FlashcardSet, error)
	ListByDocument(userID uint, documentID string) ([]model.FlashcardSet, error)
	Save(set *model.FlashcardSet) error
	DeleteByIDAndUser(id string, userID uint) (int64, error)
}

type FlashcardGenerator interface {
	GenerateFlashcards(ctx context.Context, text string, count int) ([]model.Flashcard, error)
}

type FlashcardService struct {
	Sets      FlashcardStore
	Documents DocumentFinder
	Generator FlashcardGenerator
}

func NewFlashcardService(sets FlashcardStore, documents DocumentFinder, generator FlashcardGenerator) *FlashcardService {
	return &FlashcardService{
		Sets:      sets,
		Documents: documents,
		Generator: generator,
	}
}

const (
	defaultCardCount = 15
	maxCardCount     = 40
)

// Generate builds a flashcard set from a document's extracted text and
// persists it in one insert.
func (s *FlashcardService) Generate(ctx context.Context, userID uint, documentID string, count int) (*model.FlashcardSet, error) {
	doc, err := s.Documents.Get(userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentReady || doc.ExtractedText == "" {
		return nil, util.ErrDocumentNotReady
	}

	if count <= 0 {
		count = defaultCardCount
	}
	if count > maxCardCount {
		count = maxCardCount
	}

	cards, err := s.Generator.GenerateFlashcards(ctx, doc.ExtractedText, count)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, util.ErrGenerationFailed
	}

	set := &model.FlashcardSet{
		UserID:     userID,
		DocumentID: documentID,
		Cards:      cards,
	}
	if err := s.Sets.Create(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *FlashcardService) List(userID uint, documentID string) ([]model.FlashcardSet, error) {
	return s.Sets.ListByDocument(userID, documentID)
}

func (s *FlashcardService) Get(userID uint, setID string) (*model.FlashcardSet, error) {
	set, err := s.Sets.FindByIDAndUser(setID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFlashcardSetNotFound
		}
		return nil, err
	}
	return set, nil
}

// Review records one review of a card: bumps its review count and stamps the
// review time. An index outside the set is reported as not found.
func (s *FlashcardService) Review(userID uint, setID string, cardIndex int) (*model.Flashcard, error) {
	set, err := s.Get(userID, setID)
	if err != nil {
		return nil, err
	}
	if cardIndex < 0 || cardIndex >= len(set.Cards) {
		return nil, util.ErrFlashcardSetNotFound
	}

	now := time.Now()
	set.Cards[cardIndex].ReviewCount++
	set.Cards[cardIndex].LastReviewed = &now

	if err := s.Sets.Save(set); err != nil {
		return nil, err
	}
	card := set.Cards[cardIndex]
	return &card, nil
}

// ToggleStar flips the starred flag on one card.
func (s *FlashcardService) ToggleStar(userID uint, setID string, cardIndex int) (*model.Flashcard, error) {
	set, err := s.Get(userID, setID)
	if err != nil {
		return nil, err
	}
	if cardIndex < 0 || cardIndex >= len(set.Cards) {
		return nil, util.ErrFlashcardSetNotFound
	}

	set.Cards[cardIndex].IsStarred = !set.Cards[cardIndex].IsStarred

	if err := s.Sets.Save(set); err != nil {
		return nil, err
	}
	card := set.Cards[cardIndex]
	return &card, nil
}

func (s *FlashcardService) Delete(userID uint, setID string) error {
	rows, err := s.Sets.DeleteByIDAndUser(setID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return util.ErrFlashcardSetNotFound
	}
	return nil
}
