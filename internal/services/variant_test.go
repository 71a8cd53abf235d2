package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/openlearn/openlearn-backend/internal/types"
)

func TestResolveScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	other := env.mustCreateLesson(t, "Decimals")
	variant := env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	t.Run("missing lesson", func(t *testing.T) {
		_, err := env.variant.ResolveScope(ctx, nil, uuid.New(), nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("no variant means lesson scope", func(t *testing.T) {
		scope, err := env.variant.ResolveScope(ctx, nil, lesson.ID, nil)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if scope.IsVariant() || scope.LessonID == nil || *scope.LessonID != lesson.ID {
			t.Fatalf("unexpected scope %+v", scope)
		}
	})

	t.Run("owned variant", func(t *testing.T) {
		scope, err := env.variant.ResolveScope(ctx, nil, lesson.ID, &variant.ID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if !scope.IsVariant() || *scope.VariantID != variant.ID {
			t.Fatalf("unexpected scope %+v", scope)
		}
	})

	t.Run("variant of another lesson", func(t *testing.T) {
		_, err := env.variant.ResolveScope(ctx, nil, other.ID, &variant.ID)
		if !errors.Is(err, ErrVariantNotFound) {
			t.Fatalf("expected ErrVariantNotFound, got %v", err)
		}
	})

	t.Run("unknown variant id", func(t *testing.T) {
		bogus := uuid.New()
		_, err := env.variant.ResolveScope(ctx, nil, lesson.ID, &bogus)
		if !errors.Is(err, ErrVariantNotFound) {
			t.Fatalf("expected ErrVariantNotFound, got %v", err)
		}
	})
}

func TestCreateVariant_SlugConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	_, err := env.variant.CreateVariant(ctx, lesson.ID, VariantInput{Name: "Copy", Slug: "fractions-visual"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateVariant_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")

	if _, err := env.variant.CreateVariant(ctx, lesson.ID, VariantInput{Slug: "x"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing name: expected ErrMissingField, got %v", err)
	}
	if _, err := env.variant.CreateVariant(ctx, lesson.ID, VariantInput{Name: "x"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing slug: expected ErrMissingField, got %v", err)
	}
	if _, err := env.variant.CreateVariant(ctx, uuid.New(), VariantInput{Name: "x", Slug: "y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing lesson: expected ErrNotFound, got %v", err)
	}
}

func countDefaults(t *testing.T, env *testEnv, lessonID uuid.UUID) int {
	t.Helper()
	var count int64
	if err := env.db.Model(&types.LessonVariant{}).
		Where("lesson_id = ? AND is_default = ?", lessonID, true).
		Count(&count).Error; err != nil {
		t.Fatalf("count defaults: %v", err)
	}
	return int(count)
}

func TestDefaultVariant_AtMostOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")

	v1, err := env.variant.CreateVariant(ctx, lesson.ID, VariantInput{Name: "A", Slug: "fractions-a", IsDefault: true})
	if err != nil {
		t.Fatalf("create v1: %v", err)
	}
	if countDefaults(t, env, lesson.ID) != 1 {
		t.Fatalf("expected one default after first create")
	}

	v2, err := env.variant.CreateVariant(ctx, lesson.ID, VariantInput{Name: "B", Slug: "fractions-b", IsDefault: true})
	if err != nil {
		t.Fatalf("create v2: %v", err)
	}
	if countDefaults(t, env, lesson.ID) != 1 {
		t.Fatalf("creating a second default must displace the first")
	}

	got, err := env.variant.SetDefaultVariant(ctx, lesson.ID, v1.ID)
	if err != nil {
		t.Fatalf("set default: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("target variant not marked default")
	}
	if countDefaults(t, env, lesson.ID) != 1 {
		t.Fatalf("expected exactly one default after switch")
	}

	variants, err := env.variant.ListVariants(ctx, nil, lesson.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, v := range variants {
		if v.ID == v2.ID && v.IsDefault {
			t.Fatalf("displaced variant still default")
		}
	}
}

func TestSetDefaultVariant_ForeignVariantRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	other := env.mustCreateLesson(t, "Decimals")
	foreign := env.mustCreateVariant(t, other.ID, "Other", "decimals-a")

	_, err := env.variant.SetDefaultVariant(ctx, lesson.ID, foreign.ID)
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestUpdateVariant_Whitelist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	variant := env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	updated, err := env.variant.UpdateVariant(ctx, nil, lesson.ID, variant.ID, map[string]interface{}{
		"name":      "Visual v2",
		"weight":    3,
		"is_active": false,
		"lesson_id": uuid.New().String(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Visual v2" || updated.Weight != 3 || updated.IsActive {
		t.Fatalf("fields not applied: %+v", updated)
	}
	if updated.LessonID != lesson.ID {
		t.Fatalf("lesson_id must not be patchable")
	}
}

func TestDeleteVariant_CascadesOwnContentOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	variant := env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	lessonPage := env.mustCreatePage(t, LessonScope(lesson.ID), "Intro")
	variantPage := env.mustCreatePage(t, VariantScope(variant.ID), "Visual intro")
	md := "text"
	if _, err := env.content.CreateBlock(ctx, nil, VariantScope(variant.ID), variantPage.ID, types.BlockTypeMarkdown, BlockPayload{Markdown: &md}, nil); err != nil {
		t.Fatalf("create variant block: %v", err)
	}

	if err := env.variant.DeleteVariant(ctx, lesson.ID, variant.ID); err != nil {
		t.Fatalf("delete variant: %v", err)
	}

	var variants, pages, blocks int64
	env.db.Unscoped().Model(&types.LessonVariant{}).Where("id = ?", variant.ID).Count(&variants)
	env.db.Unscoped().Model(&types.ContentPage{}).Where("variant_id = ?", variant.ID).Count(&pages)
	env.db.Unscoped().Model(&types.ContentBlock{}).Where("page_id = ?", variantPage.ID).Count(&blocks)
	if variants != 0 || pages != 0 || blocks != 0 {
		t.Fatalf("cascade incomplete: %d variants, %d pages, %d blocks", variants, pages, blocks)
	}

	// The lesson's principal content is untouched.
	if _, err := env.content.GetPage(ctx, nil, LessonScope(lesson.ID), lessonPage.ID); err != nil {
		t.Fatalf("lesson page should survive variant delete: %v", err)
	}
}
