package ban

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the ban domain service.
var ProviderSet = wire.NewSet(
	NewService,
)
