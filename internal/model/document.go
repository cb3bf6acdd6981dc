package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentStatus is the ingestion state of a document.
type DocumentStatus string

const (
	DocumentPending    DocumentStatus = "pending"
	DocumentProcessing DocumentStatus = "processing"
	DocumentActive     DocumentStatus = "active"
	DocumentError      DocumentStatus = "error"
)

// Document is an uploaded PDF. TotalChunks is only meaningful once the
// document is active.
type Document struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Filename    string         `json:"filename" gorm:"size:255;not null"`
	StoragePath string         `json:"-" gorm:"size:1024;not null"`
	Status      DocumentStatus `json:"status" gorm:"type:varchar(16);not null;default:pending;index:idx_status"`
	TotalChunks int            `json:"total_chunks" gorm:"not null;default:0"`
	UploadedBy  string         `json:"uploaded_by" gorm:"type:varchar(64);not null;index:idx_uploaded_by"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (*Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns a UUID v4 when the id is empty.
func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
