package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlearn/openlearn-backend/internal/repos"
	"github.com/openlearn/openlearn-backend/internal/types"
)

func TestCreatePage_OrderDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)

	p1 := env.mustCreatePage(t, scope, "Intro")
	if p1.Order != 1 {
		t.Fatalf("first page order = %d, want 1", p1.Order)
	}
	p2 := env.mustCreatePage(t, scope, "Practice")
	if p2.Order != 2 {
		t.Fatalf("second page order = %d, want 2", p2.Order)
	}

	explicit := 10
	p3, err := env.content.CreatePage(ctx, nil, scope, "Appendix", &explicit)
	if err != nil {
		t.Fatalf("create page with explicit order: %v", err)
	}
	if p3.Order != 10 {
		t.Fatalf("explicit order = %d, want 10", p3.Order)
	}
}

func TestCreatePage_RequiresName(t *testing.T) {
	env := newTestEnv(t)
	lesson := env.mustCreateLesson(t, "Fractions")

	_, err := env.content.CreatePage(context.Background(), nil, LessonScope(lesson.ID), "   ", nil)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestGetPage_WrongScopeIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	variant := env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	lessonPage := env.mustCreatePage(t, LessonScope(lesson.ID), "Intro")
	variantPage := env.mustCreatePage(t, VariantScope(variant.ID), "Visual intro")

	if _, err := env.content.GetPage(ctx, nil, VariantScope(variant.ID), lessonPage.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lesson page via variant scope: expected ErrNotFound, got %v", err)
	}
	if _, err := env.content.GetPage(ctx, nil, LessonScope(lesson.ID), variantPage.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("variant page via lesson scope: expected ErrNotFound, got %v", err)
	}
}

func TestListPages_ScopeIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	variant := env.mustCreateVariant(t, lesson.ID, "Visual", "fractions-visual")

	env.mustCreatePage(t, LessonScope(lesson.ID), "Intro")
	env.mustCreatePage(t, LessonScope(lesson.ID), "Practice")
	env.mustCreatePage(t, VariantScope(variant.ID), "Visual intro")

	lessonPages, err := env.content.ListPages(ctx, nil, LessonScope(lesson.ID), false)
	if err != nil {
		t.Fatalf("list lesson pages: %v", err)
	}
	if len(lessonPages) != 2 {
		t.Fatalf("lesson pages = %d, want 2", len(lessonPages))
	}

	variantPages, err := env.content.ListPages(ctx, nil, VariantScope(variant.ID), false)
	if err != nil {
		t.Fatalf("list variant pages: %v", err)
	}
	if len(variantPages) != 1 || variantPages[0].Name != "Visual intro" {
		t.Fatalf("variant pages = %+v, want the single visual page", variantPages)
	}
}

func TestListPages_FiltersArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)

	env.mustCreatePage(t, scope, "Live")
	archived := env.mustCreatePage(t, scope, "Old")
	if _, err := env.content.UpdatePage(ctx, nil, scope, archived.ID, map[string]interface{}{"archived": true}); err != nil {
		t.Fatalf("archive page: %v", err)
	}

	visible, err := env.content.ListPages(ctx, nil, scope, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].Name != "Live" {
		t.Fatalf("default listing should hide archived pages, got %d", len(visible))
	}

	all, err := env.content.ListPages(ctx, nil, scope, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("includeArchived listing = %d pages, want 2", len(all))
	}
}

func TestCreateBlock_InvalidTypeWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	_, err := env.content.CreateBlock(ctx, nil, scope, page.ID, "DIAGRAM", BlockPayload{}, nil)
	if !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("expected ErrInvalidContentType, got %v", err)
	}

	var count int64
	if err := env.db.Model(&types.ContentBlock{}).Where("page_id = ?", page.ID).Count(&count).Error; err != nil {
		t.Fatalf("count blocks: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected create left %d rows", count)
	}
}

func TestCreateBlock_NormalizesPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	md := "# Halves"
	video := "https://example.com/clip.mp4"
	block, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeMarkdown, BlockPayload{
		Markdown: &md,
		VideoURL: &video,
		Metadata: []byte(`{"author":"ana"}`),
	}, nil)
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	if block.Markdown == nil || *block.Markdown != md {
		t.Fatalf("markdown not kept: %+v", block)
	}
	if block.VideoURL != nil {
		t.Fatalf("video_url should be nulled on a markdown block, got %q", *block.VideoURL)
	}
	if len(block.Metadata) == 0 {
		t.Fatalf("metadata should be kept on every type")
	}
	if block.Order != 1 {
		t.Fatalf("first block order = %d, want 1", block.Order)
	}
}

func TestUpdateBlock_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	md := "original"
	block, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeMarkdown, BlockPayload{
		Markdown: &md,
		Metadata: []byte(`{"v":1}`),
	}, nil)
	if err != nil {
		t.Fatalf("create block: %v", err)
	}

	// Absent fields stay untouched.
	updated, err := env.content.UpdateBlock(ctx, nil, scope, page.ID, block.ID, map[string]interface{}{
		"markdown": "edited",
	})
	if err != nil {
		t.Fatalf("update block: %v", err)
	}
	if updated.Markdown == nil || *updated.Markdown != "edited" {
		t.Fatalf("markdown = %v, want edited", updated.Markdown)
	}
	if len(updated.Metadata) == 0 {
		t.Fatalf("metadata was not in the patch and must survive")
	}

	// An explicit null clears the field.
	cleared, err := env.content.UpdateBlock(ctx, nil, scope, page.ID, block.ID, map[string]interface{}{
		"metadata": nil,
	})
	if err != nil {
		t.Fatalf("clear metadata: %v", err)
	}
	if len(cleared.Metadata) != 0 {
		t.Fatalf("explicit null should clear metadata, got %s", cleared.Metadata)
	}

	// A payload key the type cannot carry is coerced to null, not stored.
	coerced, err := env.content.UpdateBlock(ctx, nil, scope, page.ID, block.ID, map[string]interface{}{
		"video_url": "https://example.com/clip.mp4",
	})
	if err != nil {
		t.Fatalf("update with irrelevant key: %v", err)
	}
	if coerced.VideoURL != nil {
		t.Fatalf("video_url on markdown block should stay null, got %q", *coerced.VideoURL)
	}
}

func TestUpdateBlock_TypeSwitchClearsStalePayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	md := "text"
	block, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeMarkdown, BlockPayload{Markdown: &md}, nil)
	if err != nil {
		t.Fatalf("create block: %v", err)
	}

	switched, err := env.content.UpdateBlock(ctx, nil, scope, page.ID, block.ID, map[string]interface{}{
		"type":      types.BlockTypeVideo,
		"video_url": "https://example.com/clip.mp4",
	})
	if err != nil {
		t.Fatalf("switch type: %v", err)
	}
	if switched.Type != types.BlockTypeVideo {
		t.Fatalf("type = %q, want VIDEO", switched.Type)
	}
	if switched.Markdown != nil {
		t.Fatalf("markdown must be cleared on switch to VIDEO, got %q", *switched.Markdown)
	}
	if switched.VideoURL == nil {
		t.Fatalf("video_url missing after switch")
	}
}

func TestDeletePage_RemovesBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	md := "text"
	if _, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeMarkdown, BlockPayload{Markdown: &md}, nil); err != nil {
		t.Fatalf("create block: %v", err)
	}

	if err := env.content.DeletePage(ctx, scope, page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}

	var blocks, pages int64
	if err := env.db.Unscoped().Model(&types.ContentBlock{}).Where("page_id = ?", page.ID).Count(&blocks).Error; err != nil {
		t.Fatalf("count blocks: %v", err)
	}
	if err := env.db.Unscoped().Model(&types.ContentPage{}).Where("id = ?", page.ID).Count(&pages).Error; err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if blocks != 0 || pages != 0 {
		t.Fatalf("delete left %d blocks, %d pages", blocks, pages)
	}
}

func TestReorderPages_RejectsNonPermutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)

	p1 := env.mustCreatePage(t, scope, "A")
	p2 := env.mustCreatePage(t, scope, "B")

	cases := []struct {
		name string
		ids  []uuid.UUID
	}{
		{"subset", []uuid.UUID{p1.ID}},
		{"duplicate", []uuid.UUID{p1.ID, p1.ID}},
		{"foreign id", []uuid.UUID{p1.ID, uuid.New()}},
		{"superset", []uuid.UUID{p1.ID, p2.ID, uuid.New()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := env.content.ReorderPages(ctx, scope, tc.ids); !errors.Is(err, ErrOrderMismatch) {
				t.Fatalf("expected ErrOrderMismatch, got %v", err)
			}
		})
	}

	// Orders are untouched after every rejection.
	pages, err := env.content.ListPages(ctx, nil, scope, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if pages[0].Order != 1 || pages[1].Order != 2 {
		t.Fatalf("orders changed after rejected reorders: %d, %d", pages[0].Order, pages[1].Order)
	}
}

func TestReorderPages_AssignsSequentialAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)

	p1 := env.mustCreatePage(t, scope, "P1")
	p2 := env.mustCreatePage(t, scope, "P2")
	p3 := env.mustCreatePage(t, scope, "P3")
	if p3.Order != 3 {
		t.Fatalf("third page order = %d, want 3", p3.Order)
	}

	want := []uuid.UUID{p3.ID, p1.ID, p2.ID}
	for pass := 0; pass < 2; pass++ {
		if err := env.content.ReorderPages(ctx, scope, want); err != nil {
			t.Fatalf("reorder pass %d: %v", pass, err)
		}
		pages, err := env.content.ListPages(ctx, nil, scope, false)
		if err != nil {
			t.Fatalf("list pass %d: %v", pass, err)
		}
		for i, p := range pages {
			if p.ID != want[i] {
				t.Fatalf("pass %d position %d = %s, want %s", pass, i, p.ID, want[i])
			}
			if p.Order != i {
				t.Fatalf("pass %d page %s order = %d, want %d", pass, p.Name, p.Order, i)
			}
		}
	}
}

func TestReorderBlocks_SequentialOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)
	page := env.mustCreatePage(t, scope, "Intro")

	md := "text"
	b1, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeMarkdown, BlockPayload{Markdown: &md}, nil)
	if err != nil {
		t.Fatalf("create b1: %v", err)
	}
	b2, err := env.content.CreateBlock(ctx, nil, scope, page.ID, types.BlockTypeExercise, BlockPayload{ExerciseData: []byte(`{"q":1}`)}, nil)
	if err != nil {
		t.Fatalf("create b2: %v", err)
	}

	if err := env.content.ReorderBlocks(ctx, scope, page.ID, []uuid.UUID{b2.ID, b1.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got, err := env.content.GetPage(ctx, nil, scope, page.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if got.Blocks[0].ID != b2.ID || got.Blocks[0].Order != 0 || got.Blocks[1].Order != 1 {
		t.Fatalf("blocks not reordered to 0..N-1: %+v", got.Blocks)
	}
}

// failAfterPageRepo fails SetOrder once the call count passes the threshold,
// leaving earlier calls applied inside the transaction.
type failAfterPageRepo struct {
	repos.ContentPageRepo
	calls  int
	failAt int
}

func (r *failAfterPageRepo) SetOrder(ctx context.Context, tx *gorm.DB, pageID uuid.UUID, order int) error {
	r.calls++
	if r.calls >= r.failAt {
		return errors.New("storage failure")
	}
	return r.ContentPageRepo.SetOrder(ctx, tx, pageID, order)
}

func TestReorderPages_FailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lesson := env.mustCreateLesson(t, "Fractions")
	scope := LessonScope(lesson.ID)

	p1 := env.mustCreatePage(t, scope, "P1")
	p2 := env.mustCreatePage(t, scope, "P2")
	p3 := env.mustCreatePage(t, scope, "P3")

	failing := &failAfterPageRepo{ContentPageRepo: env.pageRepo, failAt: 3}
	svc := NewContentService(env.db, env.log, failing, env.blockRepo, nil)

	err := svc.ReorderPages(ctx, scope, []uuid.UUID{p3.ID, p1.ID, p2.ID})
	if err == nil {
		t.Fatalf("expected reorder to fail")
	}

	// The first two SetOrder calls succeeded inside the transaction; the
	// rollback must restore the original orders.
	pages, err := env.content.ListPages(ctx, nil, scope, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantOrder := map[uuid.UUID]int{p1.ID: 1, p2.ID: 2, p3.ID: 3}
	for _, p := range pages {
		if p.Order != wantOrder[p.ID] {
			t.Fatalf("page %s order = %d, want %d", p.Name, p.Order, wantOrder[p.ID])
		}
	}
}
