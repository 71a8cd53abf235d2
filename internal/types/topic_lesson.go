package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TopicLesson struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	TopicID uuid.UUID `gorm:"type:uuid;not null;index:idx_topic_lesson,unique,priority:1" json:"topic_id"`
	Topic   *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`

	LessonID uuid.UUID `gorm:"type:uuid;not null;index:idx_topic_lesson,unique,priority:2" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	Order int `gorm:"column:order;not null;default:0" json:"order"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TopicLesson) TableName() string { return "topic_lesson" }

func (tl *TopicLesson) BeforeCreate(tx *gorm.DB) error {
	if tl.ID == uuid.Nil {
		tl.ID = uuid.New()
	}
	return nil
}
