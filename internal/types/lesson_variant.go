package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonVariant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	Name        string `gorm:"column:name;not null" json:"name"`
	Slug        string `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"column:description" json:"description"`
	IsDefault   bool   `gorm:"column:is_default;not null;default:false" json:"is_default"`
	Weight      int    `gorm:"column:weight;not null;default:0" json:"weight"`
	IsActive    bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonVariant) TableName() string { return "lesson_variant" }

func (v *LessonVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
