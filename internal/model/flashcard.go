package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type Flashcard struct {
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Difficulty   Difficulty `json:"difficulty"`
	ReviewCount  int        `json:"reviewCount"`
	LastReviewed *time.Time `json:"lastReviewed,omitempty"`
	IsStarred    bool       `json:"isStarred"`
}

type FlashcardList []Flashcard

func (l FlashcardList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *FlashcardList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// swagger:model FlashcardSet
type FlashcardSet struct {
	UUIDBase
	UserID     uint          `gorm:"index:idx_flashcard_owner_document;type:bigint unsigned;not null" json:"userId"`
	DocumentID string        `gorm:"index:idx_flashcard_owner_document;type:varchar(36);not null" json:"documentId"`
	Cards      FlashcardList `gorm:"type:json" json:"cards"`
}

func (FlashcardSet) TableName() string {
	return "flashcard_sets"
}
