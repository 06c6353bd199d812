package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionShortText    QuestionType = "SHORT_TEXT"
	QuestionLongText     QuestionType = "LONG_TEXT"
	QuestionFile         QuestionType = "FILE"
	QuestionSingleAnswer QuestionType = "SINGLE_ANSWER"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionFile, QuestionSingleAnswer:
		return true
	}
	return false
}

type ApplicationTemplate struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	IsGlobal bool   `gorm:"column:is_global" json:"is_global"`

	Questions []Question `gorm:"foreignKey:TemplateID" json:"questions"`

	CreatedBy string         `gorm:"column:created_by;type:uuid;index" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (ApplicationTemplate) TableName() string { return "application_templates" }

type Question struct {
	ID         uint         `gorm:"column:id;primaryKey" json:"id"`
	TemplateID uint         `gorm:"column:template_id;index" json:"template_id"`
	Name       string       `gorm:"column:name;type:text" json:"name"`
	Type       QuestionType `gorm:"column:type;type:text" json:"type"`

	// MaxLength bounds text length for the text types and file count for FILE.
	MaxLength          *int           `gorm:"column:max_length" json:"max_length"`
	CustomRequirements datatypes.JSON `gorm:"column:custom_requirements;type:jsonb" json:"custom_requirements"`
	IsRequired         bool           `gorm:"column:is_required" json:"is_required"`

	// Pre-seeded choices for SINGLE_ANSWER questions.
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers"`
}

func (Question) TableName() string { return "template_questions" }

// QuestionRequirements is the typed view of CustomRequirements.
type QuestionRequirements struct {
	Types []string `json:"types"`
}

func (q *Question) Requirements() (QuestionRequirements, error) {
	var req QuestionRequirements
	if len(q.CustomRequirements) == 0 {
		return req, nil
	}
	err := json.Unmarshal(q.CustomRequirements, &req)
	return req, err
}

// Answer holds one value slot per question type: Text for the text types,
// FileIDs for FILE, and for SINGLE_ANSWER the row itself is the choice.
// ApplicationCreated separates applicant-submitted rows from seeded choices.
type Answer struct {
	ID         uint `gorm:"column:id;primaryKey" json:"id"`
	QuestionID uint `gorm:"column:question_id;index" json:"question_id"`

	Text    string        `gorm:"column:text_value;type:text" json:"text,omitempty"`
	FileIDs pq.Int64Array `gorm:"column:file_ids;type:bigint[]" json:"file_ids,omitempty"`

	ApplicationCreated bool `gorm:"column:application_created" json:"application_created"`
}

func (Answer) TableName() string { return "template_answers" }
