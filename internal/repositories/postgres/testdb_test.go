package postgres

import (
	"path/filepath"
	"testing"

	"github.com/hirewire/hirewire/config"
	"github.com/hirewire/hirewire/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedTags creates a group plus n tags and returns their ids.
func seedTags(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()

	group := models.TagGroup{Name: "skills"}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("create tag group: %v", err)
	}
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		tag := models.Tag{GroupID: group.ID, Name: string(rune('A' + i))}
		if err := db.Create(&tag).Error; err != nil {
			t.Fatalf("create tag: %v", err)
		}
		ids = append(ids, tag.ID)
	}
	return ids
}

func seedTemplate(t *testing.T, db *gorm.DB, questions ...models.Question) *models.ApplicationTemplate {
	t.Helper()

	tmpl := models.ApplicationTemplate{Name: "default"}
	if err := db.Create(&tmpl).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}
	for i := range questions {
		questions[i].TemplateID = tmpl.ID
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	tmpl.Questions = questions
	return &tmpl
}

func seedVacancy(t *testing.T, db *gorm.DB, templateID uint, createdBy string) *models.Vacancy {
	t.Helper()

	v := models.Vacancy{
		Name:        "Backend Engineer",
		Description: "Go services",
		WorkFormat:  models.WorkFormatRemote,
		TemplateID:  templateID,
		CreatedBy:   createdBy,
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("create vacancy: %v", err)
	}
	return &v
}
