package middleware

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the HTTP façade's middleware.
// The middleware constructors themselves are invoked directly from
// internal/api.Router (they need per-route strategy values Wire cannot
// synthesise), so this set only exists to keep the package wireable for
// future additions.
var ProviderSet = wire.NewSet()
