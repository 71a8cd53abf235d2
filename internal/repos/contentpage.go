package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type ContentPageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, page *types.ContentPage) (*types.ContentPage, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.ContentPage, error)
  ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, includeArchived bool) ([]*types.ContentPage, error)
  ListByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, includeArchived bool) ([]*types.ContentPage, error)
  IDsByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]uuid.UUID, error)
  IDsByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) ([]uuid.UUID, error)
  MaxOrderByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*int, error)
  MaxOrderByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) (*int, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, fields map[string]interface{}) error
  SetOrder(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, order int) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) error
}

type contentPageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentPageRepo(db *gorm.DB, baseLog *logger.Logger) ContentPageRepo {
  repoLog := baseLog.With("repo", "ContentPageRepo")
  return &contentPageRepo{db: db, log: repoLog}
}

func (r *contentPageRepo) Create(ctx context.Context, tx *gorm.DB, page *types.ContentPage) (*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(page).Error; err != nil {
    return nil, err
  }
  return page, nil
}

func (r *contentPageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) ([]*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentPage
  if len(pageIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", pageIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentPageRepo) ListByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, includeArchived bool) ([]*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Where("lesson_id = ?", lessonID)
  if !includeArchived {
    query = query.Where("archived = ?", false)
  }

  var results []*types.ContentPage
  if err := query.Order(`"order" ASC`).Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentPageRepo) ListByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, includeArchived bool) ([]*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Where("variant_id = ?", variantID)
  if !includeArchived {
    query = query.Where("archived = ?", false)
  }

  var results []*types.ContentPage
  if err := query.Order(`"order" ASC`).Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentPageRepo) IDsByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("lesson_id = ?", lessonID).
    Pluck("id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *contentPageRepo) IDsByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("variant_id = ?", variantID).
    Pluck("id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *contentPageRepo) MaxOrderByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("lesson_id = ?", lessonID).
    Select(`MAX("order")`).
    Scan(&max).Error; err != nil {
    return nil, err
  }
  return max, nil
}

func (r *contentPageRepo) MaxOrderByVariantID(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) (*int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("variant_id = ?", variantID).
    Select(`MAX("order")`).
    Scan(&max).Error; err != nil {
    return nil, err
  }
  return max, nil
}

func (r *contentPageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(fields) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("id = ?", pageID).
    Updates(fields).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentPageRepo) SetOrder(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, order int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContentPage{}).
    Where("id = ?", pageID).
    Update("order", order).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentPageRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(pageIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", pageIDs).
    Delete(&types.ContentPage{}).Error; err != nil {
    return err
  }
  return nil
}
