package models

import "time"

// Document is the metadata record for an uploaded file. The file itself
// lives in blob storage under FilePath; request units reference documents
// by ID and never own the content.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	DocumentType  string    `gorm:"size:128;not null;index" json:"document_type"`
	SentFrom      string    `gorm:"size:128" json:"sent_from"`
	DocumentMonth string    `gorm:"size:128" json:"document_month"`
	DocumentYear  string    `gorm:"size:128;index" json:"document_year"`
	Subject       string    `gorm:"size:128" json:"subject"`
	NumberPages   int       `gorm:"not null" json:"number_pages"`
	OCRMetadata   string    `gorm:"type:text" json:"ocr_metadata,omitempty"`
	FilePath      string    `gorm:"size:512;not null" json:"-"`
	DateUploaded  time.Time `gorm:"autoCreateTime" json:"date_uploaded"`
}

// TableName specifies the table name for GORM.
func (Document) TableName() string {
	return "documents"
}
