package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type LessonObjectiveRepo interface {
  Create(ctx context.Context, tx *gorm.DB, objectives []*types.LessonObjective) ([]*types.LessonObjective, error)
  ListByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.LessonObjective, error)
  FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type lessonObjectiveRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLessonObjectiveRepo(db *gorm.DB, baseLog *logger.Logger) LessonObjectiveRepo {
  repoLog := baseLog.With("repo", "LessonObjectiveRepo")
  return &lessonObjectiveRepo{db: db, log: repoLog}
}

func (r *lessonObjectiveRepo) Create(ctx context.Context, tx *gorm.DB, objectives []*types.LessonObjective) ([]*types.LessonObjective, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(objectives) == 0 {
    return []*types.LessonObjective{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&objectives).Error; err != nil {
    return nil, err
  }
  return objectives, nil
}

func (r *lessonObjectiveRepo) ListByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.LessonObjective, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LessonObjective
  if len(lessonIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("lesson_id IN ?", lessonIDs).
    Order(`lesson_id, "order" ASC`).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lessonObjectiveRepo) FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(lessonIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("lesson_id IN ?", lessonIDs).
    Delete(&types.LessonObjective{}).Error; err != nil {
    return err
  }
  return nil
}
