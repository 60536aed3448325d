package mapcatalog

import (
	"github.com/google/wire"

	"github.com/kz-league/backend/internal/pkg/cache"
)

// ProviderSet is the Wire provider set for the map catalogue domain service.
var ProviderSet = wire.NewSet(
	ProvideService,
)

// ProvideService wraps the repository-backed service with the shared cache
// for the WS hot path.
func ProvideService(repo Repository, c *cache.Cache) Service {
	return NewCachingService(NewService(repo), c)
}
