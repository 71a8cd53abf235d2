package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type SubjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, subject *types.Subject) (*types.Subject, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Subject, error)
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error
}

type subjectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
  repoLog := baseLog.With("repo", "SubjectRepo")
  return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) Create(ctx context.Context, tx *gorm.DB, subject *types.Subject) (*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(subject).Error; err != nil {
    return nil, err
  }
  return subject, nil
}

func (r *subjectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Subject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Subject
  if len(subjectIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", subjectIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *subjectRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(subjectIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", subjectIDs).
    Delete(&types.Subject{}).Error; err != nil {
    return err
  }
  return nil
}
