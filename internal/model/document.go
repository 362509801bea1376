package model

// DocumentStatus tracks how far a document got through the upload pipeline.
type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentReady      DocumentStatus = "ready"
	DocumentFailed     DocumentStatus = "failed"
)

// swagger:model Document
type Document struct {
	UUIDBase
	UserID        uint           `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	FileName      string         `gorm:"size:255;not null" json:"fileName"`
	FileURL       string         `gorm:"size:512" json:"fileUrl"`
	FileSize      int64          `gorm:"default:0" json:"fileSize"`
	PageCount     int            `gorm:"default:0" json:"pageCount"`
	ExtractedText string         `gorm:"type:longtext" json:"-"`
	Status        DocumentStatus `gorm:"size:20;default:'processing'" json:"status"`
}

func (Document) TableName() string {
	return "documents"
}
