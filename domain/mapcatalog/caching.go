package mapcatalog

import (
	"context"
	"fmt"
	"time"

	"github.com/kz-league/backend/internal/pkg/cache"
)

// filterCacheTTL bounds how stale a cached (course, mode, teleports)
// resolution can be after an admin edits the map pool.
const filterCacheTTL = 5 * time.Minute

// cachingService wraps Service with the two-tier Redis/ristretto cache the
// WS dispatch loop leans on hardest: ResolveFilter and GetFilter are called
// once per NewRecord/WantCourseTop/WantPersonalBest frame, which on a busy
// server vastly outpaces map-pool writes.
type cachingService struct {
	Service
	cache *cache.Cache
}

// NewCachingService decorates inner with cache, using singleflight-backed
// reads so concurrent misses collapse into one upstream lookup.
func NewCachingService(inner Service, c *cache.Cache) Service {
	if c == nil {
		return inner
	}
	return &cachingService{Service: inner, cache: c}
}

func (s *cachingService) ResolveFilter(ctx context.Context, courseID uint32, mode Mode, teleports bool) (*Filter, error) {
	key := fmt.Sprintf("mapcatalog:filter:%d:%s:%t", courseID, mode, teleports)
	val, err := s.cache.GetWithSingleflight(ctx, key, (*Filter)(nil), func() (interface{}, error) {
		return s.Service.ResolveFilter(ctx, courseID, mode, teleports)
	}, ptr(filterCacheTTL))
	if err != nil {
		return nil, err
	}
	return val.(*Filter), nil
}

func (s *cachingService) GetFilter(ctx context.Context, id uint32) (*Filter, error) {
	key := fmt.Sprintf("mapcatalog:filter_id:%d", id)
	val, err := s.cache.GetWithSingleflight(ctx, key, (*Filter)(nil), func() (interface{}, error) {
		return s.Service.GetFilter(ctx, id)
	}, ptr(filterCacheTTL))
	if err != nil {
		return nil, err
	}
	return val.(*Filter), nil
}

func (s *cachingService) UpdateFilter(ctx context.Context, f *Filter) error {
	if err := s.Service.UpdateFilter(ctx, f); err != nil {
		return err
	}
	_ = s.cache.Expire(ctx, fmt.Sprintf("mapcatalog:filter_id:%d", f.ID))
	_ = s.cache.Expire(ctx, fmt.Sprintf("mapcatalog:filter:%d:%s:%t", f.CourseID, f.Mode, f.Teleports))
	return nil
}

func ptr[T any](v T) *T { return &v }
