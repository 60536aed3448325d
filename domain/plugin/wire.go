package plugin

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the plugin catalogue domain service.
var ProviderSet = wire.NewSet(
	NewService,
	NewArtifactService,
)
