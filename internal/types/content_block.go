package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BlockTypeMarkdown             = "MARKDOWN"
	BlockTypeVideo                = "VIDEO"
	BlockTypeInteractiveComponent = "INTERACTIVE_COMPONENT"
	BlockTypeExercise             = "EXERCISE"
	BlockTypeSimulation           = "SIMULATION"
	BlockTypeAssessment           = "ASSESSMENT"
)

func ValidBlockType(t string) bool {
	switch t {
	case BlockTypeMarkdown, BlockTypeVideo, BlockTypeInteractiveComponent,
		BlockTypeExercise, BlockTypeSimulation, BlockTypeAssessment:
		return true
	}
	return false
}

// Payload columns are nullable; only the ones relevant to Type are kept
// non-null, the rest are forced to null when a block is written.
type ContentBlock struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	PageID uuid.UUID    `gorm:"type:uuid;not null;index" json:"page_id"`
	Page   *ContentPage `gorm:"constraint:OnDelete:CASCADE;foreignKey:PageID;references:ID" json:"page,omitempty"`

	Type     string `gorm:"column:type;not null" json:"type"`
	Order    int    `gorm:"column:order;not null;default:0" json:"order"`
	Archived bool   `gorm:"column:archived;not null;default:false" json:"archived"`

	Markdown       *string        `gorm:"column:markdown;type:text" json:"markdown,omitempty"`
	VideoURL       *string        `gorm:"column:video_url" json:"video_url,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	ComponentType  *string        `gorm:"column:component_type" json:"component_type,omitempty"`
	ComponentPath  *string        `gorm:"column:component_path" json:"component_path,omitempty"`
	ComponentProps datatypes.JSON `gorm:"column:component_props;type:jsonb" json:"component_props,omitempty"`
	ExerciseData   datatypes.JSON `gorm:"column:exercise_data;type:jsonb" json:"exercise_data,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentBlock) TableName() string { return "content_block" }

func (b *ContentBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
