package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonTypeGeneral    = "GENERAL"
	LessonTypeExercise   = "EXERCISE"
	LessonTypeReview     = "REVIEW"
	LessonTypeSimulation = "SIMULATION"
)

func ValidLessonType(t string) bool {
	switch t {
	case LessonTypeGeneral, LessonTypeExercise, LessonTypeReview, LessonTypeSimulation:
		return true
	}
	return false
}

type Lesson struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"column:name;not null" json:"name"`
	Description         string         `gorm:"column:description" json:"description"`
	Type                string         `gorm:"column:type;not null;default:'GENERAL'" json:"type"`
	Difficulty          float64        `gorm:"column:difficulty;not null;default:0" json:"difficulty"`
	EstimatedDuration   int            `gorm:"column:estimated_duration;not null;default:0" json:"estimated_duration"`
	KnowledgeComponents datatypes.JSON `gorm:"column:knowledge_components;type:jsonb" json:"knowledge_components"`
	Prerequisites       datatypes.JSON `gorm:"column:prerequisites;type:jsonb" json:"prerequisites"`
	Archived            bool           `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
