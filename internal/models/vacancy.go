package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkFormat string

const (
	WorkFormatOffice WorkFormat = "OFFICE"
	WorkFormatRemote WorkFormat = "REMOTE"
	WorkFormatHybrid WorkFormat = "HYBRID"
)

func (f WorkFormat) Valid() bool {
	switch f {
	case WorkFormatOffice, WorkFormatRemote, WorkFormatHybrid:
		return true
	}
	return false
}

type Vacancy struct {
	ID          uint       `gorm:"column:id;primaryKey" json:"id"`
	Name        string     `gorm:"column:name;type:text" json:"name"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	WorkFormat  WorkFormat `gorm:"column:work_format;type:text" json:"work_format"`

	TemplateID uint                `gorm:"column:template_id;index" json:"template_id"`
	Template   ApplicationTemplate `gorm:"foreignKey:TemplateID" json:"-"`

	Tags []VacancyTag `gorm:"foreignKey:VacancyID" json:"tags"`

	CreatedBy string         `gorm:"column:created_by;type:uuid;index" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Vacancy) TableName() string { return "vacancies" }
