package service

import (
	"context"
	"errors"
	"study_aid_backend/internal/model"
	"study_aid_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

type fakeFlashcardStore struct {
	sets map[string]*model.FlashcardSet
}

func newFakeFlashcardStore() *fakeFlashcardStore {
	return &fakeFlashcardStore{sets: map[string]*model.FlashcardSet{}}
}

func (s *fakeFlashcardStore) Create(set *model.FlashcardSet) error {
	set.ID = model.GenerateUUID()
	copied := *set
	s.sets[set.ID] = &copied
	return nil
}

func (s *fakeFlashcardStore) FindByIDAndUser(id string, userID uint) (*model.FlashcardSet, error) {
	set, ok := s.sets[id]
	if !ok || set.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *set
	copied.Cards = append(model.FlashcardList{}, set.Cards...)
	return &copied, nil
}

func (s *fakeFlashcardStore) ListByDocument(userID uint, documentID string) ([]model.FlashcardSet, error) {
	var out []model.FlashcardSet
	for _, set := range s.sets {
		if set.UserID == userID && set.DocumentID == documentID {
			out = append(out, *set)
		}
	}
	return out, nil
}

func (s *fakeFlashcardStore) Save(set *model.FlashcardSet) error {
	copied := *set
	s.sets[set.ID] = &copied
	return nil
}

func (s *fakeFlashcardStore) DeleteByIDAndUser(id string, userID uint) (int64, error) {
	set, ok := s.sets[id]
	if !ok || set.UserID != userID {
		return 0, nil
	}
	delete(s.sets, id)
	return 1, nil
}

type fakeCardGenerator struct {
	cards []model.Flashcard
	err   error
}

func (g *fakeCardGenerator) GenerateFlashcards(ctx context.Context, text string, count int) ([]model.Flashcard, error) {
	return g.cards, g.err
}

func newTestFlashcardService(cards []model.Flashcard) (*FlashcardService, *fakeFlashcardStore) {
	store := newFakeFlashcardStore()
	docs := &fakeDocumentFinder{docs: map[string]*model.Document{
		"doc-1": {
			UUIDBase:      model.UUIDBase{ID: "doc-1"},
			UserID:        1,
			Title:         "Chemistry Notes",
			Status:        model.DocumentReady,
			ExtractedText: "atoms bond into molecules",
		},
	}}
	svc := NewFlashcardService(store, docs, &fakeCardGenerator{cards: cards})
	return svc, store
}

func twoCards() []model.Flashcard {
	return []model.Flashcard{
		{Question: "What is an atom?", Answer: "The smallest unit of an element.", Difficulty: model.DifficultyEasy},
		{Question: "What is a covalent bond?", Answer: "A shared electron pair.", Difficulty: model.DifficultyMedium},
	}
}

func TestGenerateFlashcardSet(t *testing.T) {
	svc, store := newTestFlashcardService(twoCards())

	set, err := svc.Generate(context.Background(), 1, "doc-1", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(set.Cards) != 2 {
		t.Errorf("got %d cards", len(set.Cards))
	}
	if _, err := store.FindByIDAndUser(set.ID, 1); err != nil {
		t.Errorf("set not persisted: %v", err)
	}
}

func TestGenerateFlashcardsEmpty(t *testing.T) {
	svc, _ := newTestFlashcardService(nil)

	if _, err := svc.Generate(context.Background(), 1, "doc-1", 2); !errors.Is(err, util.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestReviewCard(t *testing.T) {
	svc, store := newTestFlashcardService(twoCards())
	set, _ := svc.Generate(context.Background(), 1, "doc-1", 2)

	card, err := svc.Review(1, set.ID, 0)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if card.ReviewCount != 1 || card.LastReviewed == nil {
		t.Errorf("card = %+v", card)
	}

	if _, err := svc.Review(1, set.ID, 0); err != nil {
		t.Fatalf("second Review: %v", err)
	}
	stored, _ := store.FindByIDAndUser(set.ID, 1)
	if stored.Cards[0].ReviewCount != 2 {
		t.Errorf("ReviewCount = %d, want 2", stored.Cards[0].ReviewCount)
	}
	if stored.Cards[1].ReviewCount != 0 {
		t.Error("review leaked onto another card")
	}
}

func TestReviewCardIndexOutOfRange(t *testing.T) {
	svc, _ := newTestFlashcardService(twoCards())
	set, _ := svc.Generate(context.Background(), 1, "doc-1", 2)

	if _, err := svc.Review(1, set.ID, 5); !errors.Is(err, util.ErrFlashcardSetNotFound) {
		t.Errorf("err = %v, want ErrFlashcardSetNotFound", err)
	}
	if _, err := svc.Review(1, set.ID, -1); !errors.Is(err, util.ErrFlashcardSetNotFound) {
		t.Errorf("err = %v, want ErrFlashcardSetNotFound", err)
	}
}

func TestToggleStar(t *testing.T) {
	svc, _ := newTestFlashcardService(twoCards())
	set, _ := svc.Generate(context.Background(), 1, "doc-1", 2)

	card, err := svc.ToggleStar(1, set.ID, 1)
	if err != nil {
		t.Fatalf("ToggleStar: %v", err)
	}
	if !card.IsStarred {
		t.Error("card should be starred")
	}

	card, err = svc.ToggleStar(1, set.ID, 1)
	if err != nil {
		t.Fatalf("ToggleStar: %v", err)
	}
	if card.IsStarred {
		t.Error("second toggle should unstar")
	}
}

func TestFlashcardOwnerScoping(t *testing.T) {
	svc, _ := newTestFlashcardService(twoCards())
	set, _ := svc.Generate(context.Background(), 1, "doc-1", 2)

	if _, err := svc.Review(2, set.ID, 0); !errors.Is(err, util.ErrFlashcardSetNotFound) {
		t.Errorf("foreign Review err = %v", err)
	}
	if err := svc.Delete(2, set.ID); !errors.Is(err, util.ErrFlashcardSetNotFound) {
		t.Errorf("foreign Delete err = %v", err)
	}
	if err := svc.Delete(1, set.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
