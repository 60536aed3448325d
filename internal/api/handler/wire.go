package handler

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the HTTP façade's handlers.
var ProviderSet = wire.NewSet(
	NewAuthHandler,
	NewPlayerHandler,
	NewServerHandler,
	NewMapHandler,
	NewRecordHandler,
	NewBanHandler,
	NewPluginHandler,
)
