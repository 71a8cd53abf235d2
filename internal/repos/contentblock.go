package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type ContentBlockRepo interface {
  Create(ctx context.Context, tx *gorm.DB, block *types.ContentBlock) (*types.ContentBlock, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, blockIDs []uuid.UUID) ([]*types.ContentBlock, error)
  ListByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID, includeArchived bool) ([]*types.ContentBlock, error)
  IDsByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]uuid.UUID, error)
  MaxOrderByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*int, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, blockID uuid.UUID, fields map[string]interface{}) error
  SetOrder(ctx context.Context, tx *gorm.DB, blockID uuid.UUID, order int) error
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, blockIDs []uuid.UUID) error
  FullDeleteByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) error
}

type contentBlockRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContentBlockRepo(db *gorm.DB, baseLog *logger.Logger) ContentBlockRepo {
  repoLog := baseLog.With("repo", "ContentBlockRepo")
  return &contentBlockRepo{db: db, log: repoLog}
}

func (r *contentBlockRepo) Create(ctx context.Context, tx *gorm.DB, block *types.ContentBlock) (*types.ContentBlock, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).Create(block).Error; err != nil {
    return nil, err
  }
  return block, nil
}

func (r *contentBlockRepo) GetByIDs(ctx context.Context, tx *gorm.DB, blockIDs []uuid.UUID) ([]*types.ContentBlock, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentBlock
  if len(blockIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", blockIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentBlockRepo) ListByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID, includeArchived bool) ([]*types.ContentBlock, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContentBlock
  if len(pageIDs) == 0 {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("page_id IN ?", pageIDs)
  if !includeArchived {
    query = query.Where("archived = ?", false)
  }

  if err := query.Order(`page_id, "order" ASC`).Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contentBlockRepo) IDsByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]uuid.UUID, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var ids []uuid.UUID
  if err := transaction.WithContext(ctx).
    Model(&types.ContentBlock{}).
    Where("page_id = ?", pageID).
    Pluck("id", &ids).Error; err != nil {
    return nil, err
  }
  return ids, nil
}

func (r *contentBlockRepo) MaxOrderByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) (*int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.ContentBlock{}).
    Where("page_id = ?", pageID).
    Select(`MAX("order")`).
    Scan(&max).Error; err != nil {
    return nil, err
  }
  return max, nil
}

func (r *contentBlockRepo) UpdateFields(ctx context.Context, tx *gorm.DB, blockID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(fields) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContentBlock{}).
    Where("id = ?", blockID).
    Updates(fields).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentBlockRepo) SetOrder(ctx context.Context, tx *gorm.DB, blockID uuid.UUID, order int) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContentBlock{}).
    Where("id = ?", blockID).
    Update("order", order).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentBlockRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, blockIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(blockIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN ?", blockIDs).
    Delete(&types.ContentBlock{}).Error; err != nil {
    return err
  }
  return nil
}

func (r *contentBlockRepo) FullDeleteByPageIDs(ctx context.Context, tx *gorm.DB, pageIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(pageIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("page_id IN ?", pageIDs).
    Delete(&types.ContentBlock{}).Error; err != nil {
    return err
  }
  return nil
}
