package cache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/openlearn/openlearn-backend/internal/logger"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestNewPageCache_RequiresAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	if _, err := NewPageCache(newTestLogger()); err == nil {
		t.Fatal("expected an error without REDIS_ADDR")
	}
}

func TestNilPageCacheIsDisabled(t *testing.T) {
	var c *PageCache
	ctx := context.Background()

	if pages, ok := c.GetPages(ctx, "lesson:x"); ok || pages != nil {
		t.Fatalf("nil cache returned a hit: %v", pages)
	}
	c.SetPages(ctx, "lesson:x", nil)
	c.Invalidate(ctx, "lesson:x")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
