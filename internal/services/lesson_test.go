package services

import (
	"context"
	"errors"
	"testing"

	"github.com/openlearn/openlearn-backend/internal/types"
)

func TestCreateLesson_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.lesson.CreateLesson(ctx, nil, LessonInput{Name: "  "}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("blank name: expected ErrMissingField, got %v", err)
	}
	if _, err := env.lesson.CreateLesson(ctx, nil, LessonInput{Name: "x", Type: "LECTURE"}); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("bad type: expected ErrInvalidContentType, got %v", err)
	}
	if _, err := env.lesson.CreateLesson(ctx, nil, LessonInput{Name: "x", Difficulty: 11}); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("out-of-range difficulty: expected ErrInvalidField, got %v", err)
	}

	lesson, err := env.lesson.CreateLesson(ctx, nil, LessonInput{Name: "Fractions"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lesson.Type != types.LessonTypeGeneral {
		t.Fatalf("type defaulted to %q, want GENERAL", lesson.Type)
	}
}

func TestUpdateLesson_PatchSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson, err := env.lesson.CreateLesson(ctx, nil, LessonInput{
		Name:        "Fractions",
		Description: "Halves and quarters",
		Type:        types.LessonTypeExercise,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Fields absent from the patch keep their values.
	updated, err := env.lesson.UpdateLesson(ctx, nil, lesson.ID, map[string]interface{}{
		"name": "Fractions v2",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Fractions v2" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.Description != "Halves and quarters" || updated.Type != types.LessonTypeExercise {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := env.lesson.UpdateLesson(ctx, nil, lesson.ID, map[string]interface{}{"type": "bogus"}); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("bad type patch: expected ErrInvalidContentType, got %v", err)
	}
	if _, err := env.lesson.UpdateLesson(ctx, nil, lesson.ID, map[string]interface{}{"difficulty": float64(-1)}); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("out-of-range difficulty patch: expected ErrInvalidField, got %v", err)
	}
}

func TestListLessons_ArchiveFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreateLesson(t, "Live")
	old := env.mustCreateLesson(t, "Old")
	if _, err := env.lesson.ArchiveLesson(ctx, nil, old.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	visible, err := env.lesson.ListLessons(ctx, nil, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].Name != "Live" {
		t.Fatalf("archived lesson leaked into the default listing: %d", len(visible))
	}

	all, err := env.lesson.ListLessons(ctx, nil, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("includeArchived listing = %d, want 2", len(all))
	}
}
