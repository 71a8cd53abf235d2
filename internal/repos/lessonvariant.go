package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type LessonVariantRepo interface {
  Create(ctx context.Context, tx *gorm.DB, variant *types.LessonVariant) (*types.LessonVariant, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) ([]*types.LessonVariant, error)
  GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.LessonVariant, error)
  ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonVariant, error)
  IDsByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]uuid.UUID, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, fields map[string]interface{}) error
  ClearDefaultByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) error
}

type lessonVariantRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLessonVariantRepo(db *gorm.DB, baseLog *logger.Logger) LessonVariantRepo {
  repoLog := baseLog.With("repo", "LessonVariantRepo")
  return &lessonVariantRepo{db: db, log: repoLog}
}

func (r *lessonVariantRepo) Create(ctx context.Context, tx *gorm.DB, variant *types.LessonVariant) (*types.LessonVariant, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(variant).Error; err != nil {
    return nil, err
  }
  return variant, nil
}

func (r *lessonVariantRepo) GetByIDs(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) ([]*types.LessonVariant, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LessonVariant
  if len(variantIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", variantIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lessonVariantRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.LessonVariant, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LessonVariant
  if err := transaction.WithContext(ctx).
    Where("slug = ?", slug).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *lessonVariantRepo) ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonVariant, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LessonVariant
  if err := transaction.WithContext(ctx).
    Where("lesson_id = ?", lessonID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *lessonVariantRepo) IDsByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.LessonVariant{}).
    Where("lesson_id = ?", lessonID).
    Pluck("id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *lessonVariantRepo) UpdateFields(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(fields) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.LessonVariant{}).
    Where("id = ?", variantID).
    Updates(fields).Error; err != nil {
    return err
  }
  return nil
}

func (r *lessonVariantRepo) ClearDefaultByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.LessonVariant{}).
    Where("lesson_id = ? AND is_default = ?", lessonID, true).
    Update("is_default", false).Error; err != nil {
    return err
  }
  return nil
}

func (r *lessonVariantRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(variantIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", variantIDs).
    Delete(&types.LessonVariant{}).Error; err != nil {
    return err
  }
  return nil
}
