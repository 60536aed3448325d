package record

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the record domain service.
var ProviderSet = wire.NewSet(
	ProvideService,
)

// ProvideService wires the record service with the default point
// distribution; nothing in this system's config currently overrides it.
func ProvideService(repo Repository, tx Transactor) Service {
	return NewService(repo, tx, nil)
}
