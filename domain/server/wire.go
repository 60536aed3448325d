package server

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the server domain service.
var ProviderSet = wire.NewSet(
	NewService,
)
