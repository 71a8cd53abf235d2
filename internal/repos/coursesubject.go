package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type CourseSubjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, links []*types.CourseSubject) ([]*types.CourseSubject, error)
  FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
  FullDeleteBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error
}

type courseSubjectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseSubjectRepo(db *gorm.DB, baseLog *logger.Logger) CourseSubjectRepo {
  repoLog := baseLog.With("repo", "CourseSubjectRepo")
  return &courseSubjectRepo{db: db, log: repoLog}
}

func (r *courseSubjectRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.CourseSubject) ([]*types.CourseSubject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(links) == 0 {
    return []*types.CourseSubject{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
    return nil, err
  }
  return links, nil
}

func (r *courseSubjectRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
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
    Delete(&types.CourseSubject{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *courseSubjectRepo) FullDeleteBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(subjectIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("subject_id IN ?", subjectIDs).
    Delete(&types.CourseSubject{}).Error; err != nil {
    return err
  }
  return nil
}
