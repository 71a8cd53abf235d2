package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseTopic struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CourseID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_topic,unique,priority:1" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	TopicID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_topic,unique,priority:2" json:"topic_id"`
	Topic   *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`

	Order int `gorm:"column:order;not null;default:0" json:"order"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseTopic) TableName() string { return "course_topic" }

func (ct *CourseTopic) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return nil
}
