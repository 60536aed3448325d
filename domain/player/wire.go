package player

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the player domain service.
var ProviderSet = wire.NewSet(
	NewService,
)
