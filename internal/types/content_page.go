package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// A page belongs to exactly one scope: either a lesson's principal content
// (LessonID set) or one of its variants (VariantID set).
type ContentPage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID  *uuid.UUID     `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Lesson    *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	VariantID *uuid.UUID     `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Variant   *LessonVariant `gorm:"constraint:OnDelete:CASCADE;foreignKey:VariantID;references:ID" json:"variant,omitempty"`

	Name     string `gorm:"column:name;not null" json:"name"`
	Order    int    `gorm:"column:order;not null;default:0" json:"order"`
	Archived bool   `gorm:"column:archived;not null;default:false" json:"archived"`

	Blocks []*ContentBlock `gorm:"foreignKey:PageID;references:ID" json:"blocks,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentPage) TableName() string { return "content_page" }

func (p *ContentPage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
