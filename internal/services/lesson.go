package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/repos"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type LessonInput struct {
  Name                string
  Description         string
  Type                string
  Difficulty          float64
  EstimatedDuration   int
  KnowledgeComponents []string
  Prerequisites       []string
}

type LessonService interface {
  CreateLesson(ctx context.Context, tx *gorm.DB, input LessonInput) (*types.Lesson, error)
  GetLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error)
  ListLessons(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*types.Lesson, error)
  UpdateLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, updates map[string]interface{}) (*types.Lesson, error)
  ArchiveLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error)
}

type lessonService struct {
  db         *gorm.DB
  log        *logger.Logger
  lessonRepo repos.LessonRepo
}

func NewLessonService(db *gorm.DB, baseLog *logger.Logger, lessonRepo repos.LessonRepo) LessonService {
  return &lessonService{
    db:         db,
    log:        baseLog.With("service", "LessonService"),
    lessonRepo: lessonRepo,
  }
}

func (s *lessonService) CreateLesson(ctx context.Context, tx *gorm.DB, input LessonInput) (*types.Lesson, error) {
  if strings.TrimSpace(input.Name) == "" {
    return nil, fmt.Errorf("lesson name: %w", ErrMissingField)
  }
  lessonType := input.Type
  if lessonType == "" {
    lessonType = types.LessonTypeGeneral
  }
  if !types.ValidLessonType(lessonType) {
    return nil, fmt.Errorf("lesson type %q: %w", lessonType, ErrInvalidContentType)
  }
  if input.Difficulty < 0 || input.Difficulty > 10 {
    return nil, fmt.Errorf("lesson difficulty out of range: %w", ErrInvalidField)
  }

  lesson := &types.Lesson{
    Name:              strings.TrimSpace(input.Name),
    Description:       input.Description,
    Type:              lessonType,
    Difficulty:        input.Difficulty,
    EstimatedDuration: input.EstimatedDuration,
  }
  if len(input.KnowledgeComponents) > 0 {
    raw, err := marshalTags(input.KnowledgeComponents)
    if err != nil {
      return nil, err
    }
    lesson.KnowledgeComponents = raw
  }
  if len(input.Prerequisites) > 0 {
    raw, err := marshalTags(input.Prerequisites)
    if err != nil {
      return nil, err
    }
    lesson.Prerequisites = raw
  }

  if _, err := s.lessonRepo.Create(ctx, tx, lesson); err != nil {
    s.log.Error("CreateLesson failed", "error", err)
    return nil, translateDBError(err)
  }
  return lesson, nil
}

func (s *lessonService) GetLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
  lessons, err := s.lessonRepo.GetByIDs(ctx, tx, []uuid.UUID{lessonID})
  if err != nil {
    return nil, fmt.Errorf("load lesson: %w", err)
  }
  if len(lessons) == 0 {
    return nil, fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
  }
  return lessons[0], nil
}

func (s *lessonService) ListLessons(ctx context.Context, tx *gorm.DB, includeArchived bool) ([]*types.Lesson, error) {
  lessons, err := s.lessonRepo.List(ctx, tx, includeArchived)
  if err != nil {
    return nil, fmt.Errorf("list lessons: %w", err)
  }
  return lessons, nil
}

func (s *lessonService) UpdateLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, updates map[string]interface{}) (*types.Lesson, error) {
  if _, err := s.GetLesson(ctx, tx, lessonID); err != nil {
    return nil, err
  }

  fields := map[string]interface{}{}
  for key, val := range updates {
    switch key {
    case "name":
      name, _ := val.(string)
      if strings.TrimSpace(name) == "" {
        return nil, fmt.Errorf("lesson name: %w", ErrMissingField)
      }
      fields["name"] = strings.TrimSpace(name)
    case "type":
      lessonType, _ := val.(string)
      if !types.ValidLessonType(lessonType) {
        return nil, fmt.Errorf("lesson type %q: %w", lessonType, ErrInvalidContentType)
      }
      fields["type"] = lessonType
    case "difficulty":
      difficulty, _ := val.(float64)
      if difficulty < 0 || difficulty > 10 {
        return nil, fmt.Errorf("lesson difficulty out of range: %w", ErrInvalidField)
      }
      fields["difficulty"] = difficulty
    case "description", "estimated_duration", "knowledge_components", "prerequisites", "archived":
      fields[key] = val
    }
  }

  if err := s.lessonRepo.UpdateFields(ctx, tx, lessonID, fields); err != nil {
    return nil, translateDBError(err)
  }
  return s.GetLesson(ctx, tx, lessonID)
}

func (s *lessonService) ArchiveLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
  return s.UpdateLesson(ctx, tx, lessonID, map[string]interface{}{"archived": true})
}

func marshalTags(tags []string) (datatypes.JSON, error) {
  raw, err := json.Marshal(tags)
  if err != nil {
    return nil, fmt.Errorf("marshal tags: %w", err)
  }
  return datatypes.JSON(raw), nil
}
