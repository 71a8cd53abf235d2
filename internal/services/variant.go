package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/openlearn/openlearn-backend/internal/cache"
  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/repos"
  "github.com/openlearn/openlearn-backend/internal/types"
)

type VariantInput struct {
  Name        string
  Slug        string
  Description string
  IsDefault   bool
  Weight      int
  IsActive    *bool
}

type VariantService interface {
  ResolveScope(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, variantID *uuid.UUID) (Scope, error)
  CreateVariant(ctx context.Context, lessonID uuid.UUID, input VariantInput) (*types.LessonVariant, error)
  ListVariants(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonVariant, error)
  UpdateVariant(ctx context.Context, tx *gorm.DB, lessonID, variantID uuid.UUID, updates map[string]interface{}) (*types.LessonVariant, error)
  SetDefaultVariant(ctx context.Context, lessonID, variantID uuid.UUID) (*types.LessonVariant, error)
  DeleteVariant(ctx context.Context, lessonID, variantID uuid.UUID) error
}

type variantService struct {
  db          *gorm.DB
  log         *logger.Logger
  lessonRepo  repos.LessonRepo
  variantRepo repos.LessonVariantRepo
  pageRepo    repos.ContentPageRepo
  blockRepo   repos.ContentBlockRepo
  pageCache   *cache.PageCache
}

func NewVariantService(
  db *gorm.DB,
  baseLog *logger.Logger,
  lessonRepo repos.LessonRepo,
  variantRepo repos.LessonVariantRepo,
  pageRepo repos.ContentPageRepo,
  blockRepo repos.ContentBlockRepo,
  pageCache *cache.PageCache,
) VariantService {
  return &variantService{
    db:          db,
    log:         baseLog.With("service", "VariantService"),
    lessonRepo:  lessonRepo,
    variantRepo: variantRepo,
    pageRepo:    pageRepo,
    blockRepo:   blockRepo,
    pageCache:   pageCache,
  }
}

// ResolveScope decides whether content operations target the lesson's
// principal content (no variant id) or one named variant's content. The two
// sets never intermix: a variant id that does not belong to the lesson is
// ErrVariantNotFound.
func (s *variantService) ResolveScope(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, variantID *uuid.UUID) (Scope, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  lessons, err := s.lessonRepo.GetByIDs(ctx, transaction, []uuid.UUID{lessonID})
  if err != nil {
    return Scope{}, fmt.Errorf("load lesson: %w", err)
  }
  if len(lessons) == 0 {
    return Scope{}, fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
  }

  if variantID == nil {
    return LessonScope(lessonID), nil
  }

  variants, err := s.variantRepo.GetByIDs(ctx, transaction, []uuid.UUID{*variantID})
  if err != nil {
    return Scope{}, fmt.Errorf("load variant: %w", err)
  }
  if len(variants) == 0 || variants[0].LessonID != lessonID {
    return Scope{}, fmt.Errorf("variant %s: %w", *variantID, ErrVariantNotFound)
  }
  return VariantScope(*variantID), nil
}

func (s *variantService) CreateVariant(ctx context.Context, lessonID uuid.UUID, input VariantInput) (*types.LessonVariant, error) {
  if strings.TrimSpace(input.Name) == "" {
    return nil, fmt.Errorf("variant name: %w", ErrMissingField)
  }
  if strings.TrimSpace(input.Slug) == "" {
    return nil, fmt.Errorf("variant slug: %w", ErrMissingField)
  }

  if _, err := s.ResolveScope(ctx, nil, lessonID, nil); err != nil {
    return nil, err
  }

  existing, err := s.variantRepo.GetBySlug(ctx, nil, input.Slug)
  if err != nil {
    return nil, fmt.Errorf("check slug: %w", err)
  }
  if existing != nil {
    return nil, fmt.Errorf("slug %q taken: %w", input.Slug, ErrConflict)
  }

  isActive := true
  if input.IsActive != nil {
    isActive = *input.IsActive
  }
  variant := &types.LessonVariant{
    LessonID:    lessonID,
    Name:        strings.TrimSpace(input.Name),
    Slug:        strings.TrimSpace(input.Slug),
    Description: input.Description,
    IsDefault:   input.IsDefault,
    Weight:      input.Weight,
    IsActive:    isActive,
  }

  // Creating a new default displaces the old one; both writes share a
  // transaction so concurrent creates cannot leave two defaults.
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if variant.IsDefault {
      if err := s.variantRepo.ClearDefaultByLessonID(ctx, tx, lessonID); err != nil {
        return fmt.Errorf("clear defaults: %w", err)
      }
    }
    if _, err := s.variantRepo.Create(ctx, tx, variant); err != nil {
      return fmt.Errorf("create variant: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("CreateVariant failed", "error", err, "lesson_id", lessonID)
    return nil, translateDBError(err)
  }
  return variant, nil
}

func (s *variantService) ListVariants(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonVariant, error) {
  if _, err := s.ResolveScope(ctx, tx, lessonID, nil); err != nil {
    return nil, err
  }
  variants, err := s.variantRepo.ListByLessonID(ctx, tx, lessonID)
  if err != nil {
    return nil, fmt.Errorf("list variants: %w", err)
  }
  return variants, nil
}

func (s *variantService) getOwnedVariant(ctx context.Context, tx *gorm.DB, lessonID, variantID uuid.UUID) (*types.LessonVariant, error) {
  variants, err := s.variantRepo.GetByIDs(ctx, tx, []uuid.UUID{variantID})
  if err != nil {
    return nil, fmt.Errorf("load variant: %w", err)
  }
  if len(variants) == 0 || variants[0].LessonID != lessonID {
    return nil, fmt.Errorf("variant %s: %w", variantID, ErrVariantNotFound)
  }
  return variants[0], nil
}

func (s *variantService) UpdateVariant(ctx context.Context, tx *gorm.DB, lessonID, variantID uuid.UUID, updates map[string]interface{}) (*types.LessonVariant, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if _, err := s.getOwnedVariant(ctx, transaction, lessonID, variantID); err != nil {
    return nil, err
  }

  fields := map[string]interface{}{}
  for key, val := range updates {
    switch key {
    case "name", "slug":
      str, _ := val.(string)
      if strings.TrimSpace(str) == "" {
        return nil, fmt.Errorf("variant %s: %w", key, ErrMissingField)
      }
      fields[key] = strings.TrimSpace(str)
    case "description", "weight", "is_active":
      fields[key] = val
    }
  }

  if err := s.variantRepo.UpdateFields(ctx, transaction, variantID, fields); err != nil {
    return nil, translateDBError(err)
  }
  return s.getOwnedVariant(ctx, transaction, lessonID, variantID)
}

// SetDefaultVariant clears the lesson's other defaults and marks the target,
// both inside one transaction, so at most one default survives any
// interleaving of concurrent calls.
func (s *variantService) SetDefaultVariant(ctx context.Context, lessonID, variantID uuid.UUID) (*types.LessonVariant, error) {
  if _, err := s.getOwnedVariant(ctx, nil, lessonID, variantID); err != nil {
    return nil, err
  }

  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.variantRepo.ClearDefaultByLessonID(ctx, tx, lessonID); err != nil {
      return fmt.Errorf("clear defaults: %w", err)
    }
    if err := s.variantRepo.UpdateFields(ctx, tx, variantID, map[string]interface{}{"is_default": true}); err != nil {
      return fmt.Errorf("set default: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("SetDefaultVariant failed", "error", err, "lesson_id", lessonID, "variant_id", variantID)
    return nil, translateDBError(err)
  }
  return s.getOwnedVariant(ctx, nil, lessonID, variantID)
}

// DeleteVariant removes the variant's content tree before the variant row.
func (s *variantService) DeleteVariant(ctx context.Context, lessonID, variantID uuid.UUID) error {
  if _, err := s.getOwnedVariant(ctx, nil, lessonID, variantID); err != nil {
    return err
  }

  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    pageIDs, err := s.pageRepo.IDsByVariantID(ctx, tx, variantID)
    if err != nil {
      return fmt.Errorf("load variant pages: %w", err)
    }
    if err := s.blockRepo.FullDeleteByPageIDs(ctx, tx, pageIDs); err != nil {
      return fmt.Errorf("delete variant blocks: %w", err)
    }
    if err := s.pageRepo.FullDeleteByIDs(ctx, tx, pageIDs); err != nil {
      return fmt.Errorf("delete variant pages: %w", err)
    }
    if err := s.variantRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{variantID}); err != nil {
      return fmt.Errorf("delete variant: %w", err)
    }
    return nil
  })
  if err != nil {
    s.log.Error("DeleteVariant failed", "error", err, "variant_id", variantID)
    return translateDBError(err)
  }

  s.pageCache.Invalidate(ctx, VariantScope(variantID).Key())
  return nil
}
