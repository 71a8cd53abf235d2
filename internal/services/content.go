package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/openlearn/openlearn-backend/internal/cache"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/ordering"
  "github.com/openlearn/openlearn-backend/internal/repos"
  "github.com/openlearn/openlearn-backend/internal/types"
)

// BlockPayload carries the type-specific content of a block. Fields that are
// irrelevant to the block's type are forced to null before anything is
// written.
type BlockPayload struct {
  Markdown       *string
  VideoURL       *string
  Metadata       datatypes.JSON
  ComponentType  *string
  ComponentPath  *string
  ComponentProps datatypes.JSON
  ExerciseData   datatypes.JSON
}

type ContentService interface {
  ListPages(ctx context.Context, tx *gorm.DB, scope Scope, includeArchived bool) ([]*types.ContentPage, error)
  GetPage(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID) (*types.ContentPage, error)
  CreatePage(ctx context.Context, tx *gorm.DB, scope Scope, name string, order *int) (*types.ContentPage, error)
  UpdatePage(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID, updates map[string]interface{}) (*types.ContentPage, error)
  DeletePage(ctx context.Context, scope Scope, pageID uuid.UUID) error
  GetBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID) (*types.ContentBlock, error)
  CreateBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID, blockType string, payload BlockPayload, order *int) (*types.ContentBlock, error)
  UpdateBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID, updates map[string]interface{}) (*types.ContentBlock, error)
  DeleteBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID) error
  ReorderPages(ctx context.Context, scope Scope, orderedIDs []uuid.UUID) error
  ReorderBlocks(ctx context.Context, scope Scope, pageID uuid.UUID, orderedIDs []uuid.UUID) error
}

type contentService struct {
  db        *gorm.DB
  log       *logger.Logger
  pageRepo  repos.ContentPageRepo
  blockRepo repos.ContentBlockRepo
  pageCache *cache.PageCache
}

func NewContentService(
  db *gorm.DB,
  baseLog *logger.Logger,
  pageRepo repos.ContentPageRepo,
  blockRepo repos.ContentBlockRepo,
  pageCache *cache.PageCache,
) ContentService {
  return &contentService{
    db:        db,
    log:       baseLog.With("service", "ContentService"),
    pageRepo:  pageRepo,
    blockRepo: blockRepo,
    pageCache: pageCache,
  }
}

// payload columns by block type; "metadata" is legal on every type.
var blockPayloadColumns = map[string][]string{
  types.BlockTypeMarkdown:             {"markdown", "metadata"},
  types.BlockTypeVideo:                {"video_url", "metadata"},
  types.BlockTypeInteractiveComponent: {"component_type", "component_path", "component_props", "metadata"},
  types.BlockTypeExercise:             {"exercise_data", "metadata"},
  types.BlockTypeSimulation:           {"component_type", "component_path", "component_props", "exercise_data", "metadata"},
  types.BlockTypeAssessment:           {"exercise_data", "metadata"},
}

var allPayloadColumns = []string{
  "markdown", "video_url", "metadata",
  "component_type", "component_path", "component_props", "exercise_data",
}

func relevantPayloadColumns(blockType string) map[string]bool {
  cols := map[string]bool{}
  for _, c := range blockPayloadColumns[blockType] {
    cols[c] = true
  }
  return cols
}

func pageInScope(page *types.ContentPage, scope Scope) bool {
  if page == nil {
    return false
  }
  if scope.VariantID != nil {
    return page.VariantID != nil && *page.VariantID == *scope.VariantID
  }
  if scope.LessonID != nil {
    return page.LessonID != nil && *page.LessonID == *scope.LessonID
  }
  return false
}

// getScopedPage loads a page and verifies it belongs to the scope. A page
// that exists under a different scope is reported as ErrNotFound so callers
// cannot probe for ids across scopes.
func (s *contentService) getScopedPage(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID) (*types.ContentPage, error) {
  pages, err := s.pageRepo.GetByIDs(ctx, tx, []uuid.UUID{pageID})
  if err != nil {
    return nil, fmt.Errorf("load page: %w", err)
  }
  if len(pages) == 0 || !pageInScope(pages[0], scope) {
    return nil, fmt.Errorf("page %s: %w", pageID, ErrNotFound)
  }
  return pages[0], nil
}

func (s *contentService) listScopedPages(ctx context.Context, tx *gorm.DB, scope Scope, includeArchived bool) ([]*types.ContentPage, error) {
  if scope.VariantID != nil {
    return s.pageRepo.ListByVariantID(ctx, tx, *scope.VariantID, includeArchived)
  }
  if scope.LessonID != nil {
    return s.pageRepo.ListByLessonID(ctx, tx, *scope.LessonID, includeArchived)
  }
  return nil, fmt.Errorf("scope has no owner: %w", ErrNotFound)
}

func (s *contentService) scopedPageIDs(ctx context.Context, tx *gorm.DB, scope Scope) ([]uuid.UUID, error) {
  if scope.VariantID != nil {
    return s.pageRepo.IDsByVariantID(ctx, tx, *scope.VariantID)
  }
  if scope.LessonID != nil {
    return s.pageRepo.IDsByLessonID(ctx, tx, *scope.LessonID)
  }
  return nil, fmt.Errorf("scope has no owner: %w", ErrNotFound)
}

func (s *contentService) maxPageOrder(ctx context.Context, tx *gorm.DB, scope Scope) (*int, error) {
  if scope.VariantID != nil {
    return s.pageRepo.MaxOrderByVariantID(ctx, tx, *scope.VariantID)
  }
  return s.pageRepo.MaxOrderByLessonID(ctx, tx, *scope.LessonID)
}

func (s *contentService) ListPages(ctx context.Context, tx *gorm.DB, scope Scope, includeArchived bool) ([]*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  cacheable := tx == nil && !includeArchived
  if cacheable {
    if pages, ok := s.pageCache.GetPages(ctx, scope.Key()); ok {
      return pages, nil
    }
  }

  pages, err := s.listScopedPages(ctx, transaction, scope, includeArchived)
  if err != nil {
    return nil, fmt.Errorf("list pages: %w", err)
  }

  pageIDs := make([]uuid.UUID, 0, len(pages))
  for _, p := range pages {
    pageIDs = append(pageIDs, p.ID)
  }
  blocks, err := s.blockRepo.ListByPageIDs(ctx, transaction, pageIDs, includeArchived)
  if err != nil {
    return nil, fmt.Errorf("list blocks: %w", err)
  }

  byPage := make(map[uuid.UUID][]*types.ContentBlock, len(pages))
  for _, b := range blocks {
    byPage[b.PageID] = append(byPage[b.PageID], b)
  }
  for _, p := range pages {
    p.Blocks = byPage[p.ID]
    if p.Blocks == nil {
      p.Blocks = []*types.ContentBlock{}
    }
  }

  if cacheable {
    s.pageCache.SetPages(ctx, scope.Key(), pages)
  }
  return pages, nil
}

func (s *contentService) GetPage(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID) (*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  page, err := s.getScopedPage(ctx, transaction, scope, pageID)
  if err != nil {
    return nil, err
  }

  blocks, err := s.blockRepo.ListByPageIDs(ctx, transaction, []uuid.UUID{page.ID}, true)
  if err != nil {
    return nil, fmt.Errorf("list blocks: %w", err)
  }
  page.Blocks = blocks
  if page.Blocks == nil {
    page.Blocks = []*types.ContentBlock{}
  }
  return page, nil
}

func (s *contentService) CreatePage(ctx context.Context, tx *gorm.DB, scope Scope, name string, order *int) (*types.ContentPage, error) {
  if strings.TrimSpace(name) == "" {
    return nil, fmt.Errorf("page name: %w", ErrMissingField)
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  pageOrder := 0
  if order != nil {
    pageOrder = *order
  } else {
    max, err := s.maxPageOrder(ctx, transaction, scope)
    if err != nil {
      return nil, fmt.Errorf("max page order: %w", err)
    }
    pageOrder = ordering.Next(max)
  }

  page := &types.ContentPage{
    LessonID:  scope.LessonID,
    VariantID: scope.VariantID,
    Name:      strings.TrimSpace(name),
    Order:     pageOrder,
  }
  if _, err := s.pageRepo.Create(ctx, transaction, page); err != nil {
    s.log.Error("CreatePage failed", "error", err, "scope", scope.Key())
    return nil, translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return page, nil
}

func (s *contentService) UpdatePage(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID, updates map[string]interface{}) (*types.ContentPage, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.getScopedPage(ctx, transaction, scope, pageID); err != nil {
    return nil, err
  }

  fields := map[string]interface{}{}
  for key, val := range updates {
    switch key {
    case "name":
      name, _ := val.(string)
      if strings.TrimSpace(name) == "" {
        return nil, fmt.Errorf("page name: %w", ErrMissingField)
      }
      fields["name"] = strings.TrimSpace(name)
    case "archived":
      fields["archived"] = val
    case "order":
      fields["order"] = val
    }
  }

  if err := s.pageRepo.UpdateFields(ctx, transaction, pageID, fields); err != nil {
    return nil, translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return s.getScopedPage(ctx, transaction, scope, pageID)
}

// DeletePage removes the page's blocks before the page row itself, as one
// transaction. There is no storage-level cascade to rely on.
func (s *contentService) DeletePage(ctx context.Context, scope Scope, pageID uuid.UUID) error {
  if _, err := s.getScopedPage(ctx, nil, scope, pageID); err != nil {
    return err
  }

  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.blockRepo.FullDeleteByPageIDs(ctx, tx, []uuid.UUID{pageID}); err != nil {
      return fmt.Errorf("delete blocks of page %s: %w", pageID, err)
    }
    if err := s.pageRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{pageID}); err != nil {
      return fmt.Errorf("delete page %s: %w", pageID, err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeletePage failed", "error", err, "page_id", pageID)
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return nil
}

func (s *contentService) GetBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID) (*types.ContentBlock, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.getScopedPage(ctx, transaction, scope, pageID); err != nil {
    return nil, err
  }

  blocks, err := s.blockRepo.GetByIDs(ctx, transaction, []uuid.UUID{blockID})
  if err != nil {
    return nil, fmt.Errorf("load block: %w", err)
  }
  if len(blocks) == 0 || blocks[0].PageID != pageID {
    return nil, fmt.Errorf("block %s: %w", blockID, ErrNotFound)
  }
  return blocks[0], nil
}

func (s *contentService) CreateBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID uuid.UUID, blockType string, payload BlockPayload, order *int) (*types.ContentBlock, error) {
  if !types.ValidBlockType(blockType) {
    return nil, fmt.Errorf("block type %q: %w", blockType, ErrInvalidContentType)
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.getScopedPage(ctx, transaction, scope, pageID); err != nil {
    return nil, err
  }

  blockOrder := 0
  if order != nil {
    blockOrder = *order
  } else {
    max, err := s.blockRepo.MaxOrderByPageID(ctx, transaction, pageID)
    if err != nil {
      return nil, fmt.Errorf("max block order: %w", err)
    }
    blockOrder = ordering.Next(max)
  }

  normalized := normalizePayload(blockType, payload)
  block := &types.ContentBlock{
    PageID:         pageID,
    Type:           blockType,
    Order:          blockOrder,
    Markdown:       normalized.Markdown,
    VideoURL:       normalized.VideoURL,
    Metadata:       normalized.Metadata,
    ComponentType:  normalized.ComponentType,
    ComponentPath:  normalized.ComponentPath,
    ComponentProps: normalized.ComponentProps,
    ExerciseData:   normalized.ExerciseData,
  }
  if _, err := s.blockRepo.Create(ctx, transaction, block); err != nil {
    s.log.Error("CreateBlock failed", "error", err, "page_id", pageID)
    return nil, translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return block, nil
}

// normalizePayload nulls every payload field that is irrelevant to the block
// type; irrelevant fields are coerced, not rejected.
func normalizePayload(blockType string, payload BlockPayload) BlockPayload {
  relevant := relevantPayloadColumns(blockType)
  out := BlockPayload{}
  if relevant["markdown"] {
    out.Markdown = payload.Markdown
  }
  if relevant["video_url"] {
    out.VideoURL = payload.VideoURL
  }
  if relevant["metadata"] {
    out.Metadata = payload.Metadata
  }
  if relevant["component_type"] {
    out.ComponentType = payload.ComponentType
  }
  if relevant["component_path"] {
    out.ComponentPath = payload.ComponentPath
  }
  if relevant["component_props"] {
    out.ComponentProps = payload.ComponentProps
  }
  if relevant["exercise_data"] {
    out.ExerciseData = payload.ExerciseData
  }
  return out
}

func (s *contentService) UpdateBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID, updates map[string]interface{}) (*types.ContentBlock, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  block, err := s.GetBlock(ctx, transaction, scope, pageID, blockID)
  if err != nil {
    return nil, err
  }

  effectiveType := block.Type
  if raw, ok := updates["type"]; ok {
    newType, _ := raw.(string)
    if !types.ValidBlockType(newType) {
      return nil, fmt.Errorf("block type %q: %w", newType, ErrInvalidContentType)
    }
    effectiveType = newType
  }
  relevant := relevantPayloadColumns(effectiveType)

  fields := map[string]interface{}{}
  for key, val := range updates {
    switch key {
    case "type":
      fields["type"] = effectiveType
    case "order", "archived":
      fields[key] = val
    case "markdown", "video_url", "metadata", "component_type", "component_path", "component_props", "exercise_data":
      if relevant[key] {
        fields[key] = val
      } else {
        fields[key] = nil
      }
    }
  }
  // A type switch clears payload columns the new type cannot carry, whether
  // or not the caller mentioned them.
  if _, ok := updates["type"]; ok {
    for _, col := range allPayloadColumns {
      if !relevant[col] {
        fields[col] = nil
      }
    }
  }

  if err := s.blockRepo.UpdateFields(ctx, transaction, blockID, fields); err != nil {
    return nil, translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return s.GetBlock(ctx, transaction, scope, pageID, blockID)
}

func (s *contentService) DeleteBlock(ctx context.Context, tx *gorm.DB, scope Scope, pageID, blockID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.GetBlock(ctx, transaction, scope, pageID, blockID); err != nil {
    return err
  }
  if err := s.blockRepo.FullDeleteByIDs(ctx, transaction, []uuid.UUID{blockID}); err != nil {
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return nil
}

// ReorderPages assigns order 0..N-1 following orderedIDs, all inside one
// transaction. The request must name exactly the current sibling set; a
// partial or foreign list is rejected instead of silently skipped.
func (s *contentService) ReorderPages(ctx context.Context, scope Scope, orderedIDs []uuid.UUID) error {
  currentIDs, err := s.scopedPageIDs(ctx, nil, scope)
  if err != nil {
    return fmt.Errorf("load sibling pages: %w", err)
  }
  if !ordering.IsPermutation(orderedIDs, currentIDs) {
    return fmt.Errorf("reorder pages in %s: %w", scope.Key(), ErrOrderMismatch)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for i, id := range orderedIDs {
      if err := s.pageRepo.SetOrder(ctx, tx, id, i); err != nil {
        return fmt.Errorf("set page %s order %d: %w", id, i, err)
      }
    }
    return nil
  })
  if err != nil {
    s.log.Error("ReorderPages failed", "error", err, "scope", scope.Key())
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return nil
}

func (s *contentService) ReorderBlocks(ctx context.Context, scope Scope, pageID uuid.UUID, orderedIDs []uuid.UUID) error {
  if _, err := s.getScopedPage(ctx, nil, scope, pageID); err != nil {
    return err
  }

  currentIDs, err := s.blockRepo.IDsByPageID(ctx, nil, pageID)
  if err != nil {
    return fmt.Errorf("load sibling blocks: %w", err)
  }
  if !ordering.IsPermutation(orderedIDs, currentIDs) {
    return fmt.Errorf("reorder blocks of page %s: %w", pageID, ErrOrderMismatch)
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for i, id := range orderedIDs {
      if err := s.blockRepo.SetOrder(ctx, tx, id, i); err != nil {
        return fmt.Errorf("set block %s order %d: %w", id, i, err)
      }
    }
    return nil
  })
  if err != nil {
    s.log.Error("ReorderBlocks failed", "error", err, "page_id", pageID)
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, scope.Key())
  return nil
}
