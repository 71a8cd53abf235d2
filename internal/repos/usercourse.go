package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type UserCourseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.UserCourse) ([]*types.UserCourse, error)
  FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type userCourseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserCourseRepo(db *gorm.DB, baseLog *logger.Logger) UserCourseRepo {
  repoLog := baseLog.With("repo", "UserCourseRepo")
  return &userCourseRepo{db: db, log: repoLog}
}

func (r *userCourseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserCourse) ([]*types.UserCourse, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.UserCourse{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *userCourseRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(courseIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("course_id IN ?", courseIDs).
    Delete(&types.UserCourse{}).Error; err != nil {
    return err
  }
  return nil
}
