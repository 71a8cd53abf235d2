package types

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The models must migrate cleanly on sqlite as well as postgres, so the
// column tags may only use literal defaults. ids come from the
// BeforeCreate hooks and timestamps from gorm's autofill.
func TestAutoMigrateOnSqlite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	models := []interface{}{
		&User{},
		&Course{},
		&Subject{},
		&Topic{},
		&Lesson{},
		&LessonVariant{},
		&ContentPage{},
		&ContentBlock{},
		&LessonObjective{},
		&TopicLesson{},
		&CourseTopic{},
		&CourseSubject{},
		&UserCourse{},
		&UserProgress{},
		&UserAttempt{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("migrate %T: %v", model, err)
		}
	}

	lesson := Lesson{Name: "Fractions"}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if lesson.ID == uuid.Nil {
		t.Fatal("expected BeforeCreate to assign an id")
	}
	if lesson.CreatedAt.IsZero() || lesson.UpdatedAt.IsZero() {
		t.Fatal("expected gorm to fill timestamps")
	}
}
