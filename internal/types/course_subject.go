package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseSubject struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CourseID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_subject,unique,priority:1" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	SubjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_subject,unique,priority:2" json:"subject_id"`
	Subject   *Subject  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseSubject) TableName() string { return "course_subject" }

func (cs *CourseSubject) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}
