package models

import (
	"time"

	"gorm.io/gorm"
)

type File struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	OwnerID  string `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`
	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"`

	// Type is the logical kind (RESUME, COVER_LETTER, PORTFOLIO, ...)
	// matched against Question.CustomRequirements for FILE answers.
	Type string `gorm:"column:type;type:text" json:"type"`

	FileSize int    `gorm:"column:file_size" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	UploadedAt time.Time      `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (File) TableName() string { return "files" }
