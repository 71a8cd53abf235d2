package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProgress struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_progress,unique,priority:1" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	LessonID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_progress,unique,priority:2" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	TopicID *uuid.UUID `gorm:"type:uuid;index" json:"topic_id,omitempty"`
	Topic   *Topic     `gorm:"constraint:OnDelete:SET NULL;foreignKey:TopicID;references:ID" json:"topic,omitempty"`

	Status      string     `gorm:"column:status;not null;default:'not_started'" json:"status"`
	Score       float64    `gorm:"column:score;not null;default:0" json:"score"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (up *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if up.ID == uuid.Nil {
		up.ID = uuid.New()
	}
	return nil
}
