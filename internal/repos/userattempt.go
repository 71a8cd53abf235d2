package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type UserAttemptRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.UserAttempt) ([]*types.UserAttempt, error)
  FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type userAttemptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserAttemptRepo(db *gorm.DB, baseLog *logger.Logger) UserAttemptRepo {
  repoLog := baseLog.With("repo", "UserAttemptRepo")
  return &userAttemptRepo{db: db, log: repoLog}
}

func (r *userAttemptRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserAttempt) ([]*types.UserAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.UserAttempt{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *userAttemptRepo) FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
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
    Delete(&types.UserAttempt{}).Error; err != nil {
    return err
  }
  return nil
}
