package models

import "time"

type ApplicationStatus struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:text" json:"name"`
}

func (ApplicationStatus) TableName() string { return "application_statuses" }

type Application struct {
	ID uint `gorm:"column:id;primaryKey" json:"id"`

	VacancyID uint    `gorm:"column:vacancy_id;index:idx_application_vacancy_user,unique" json:"vacancy_id"`
	Vacancy   Vacancy `gorm:"foreignKey:VacancyID" json:"vacancy"`

	StatusID uint              `gorm:"column:status_id" json:"status_id"`
	Status   ApplicationStatus `gorm:"foreignKey:StatusID" json:"status"`

	// Populated by the repository through the application_answers join.
	Answers []Answer `gorm:"-" json:"answers"`

	CreatedBy string    `gorm:"column:created_by;type:uuid;index:idx_application_vacancy_user,unique" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Application) TableName() string { return "applications" }

type ApplicationAnswer struct {
	ApplicationID uint `gorm:"column:application_id;primaryKey" json:"application_id"`
	AnswerID      uint `gorm:"column:answer_id;primaryKey" json:"answer_id"`
}

func (ApplicationAnswer) TableName() string { return "application_answers" }

type ApplicationNote struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	ApplicationID uint      `gorm:"column:application_id;index" json:"application_id"`
	Text          string    `gorm:"column:text;type:text" json:"text"`
	CreatedBy     string    `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (ApplicationNote) TableName() string { return "application_notes" }
