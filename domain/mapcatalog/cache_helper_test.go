package mapcatalog

import (
	"testing"

	"github.com/kz-league/backend/internal/pkg/cache"
)

// newTestCache builds a real Cache backed only by the in-process ristretto
// tier; no Redis/EventBus is wired, matching a single-instance deployment.
func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	return cache.NewCache(cache.NewCacheParams{Channel: "test-mapcatalog"})
}
