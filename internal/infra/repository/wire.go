package repository

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the GORM-backed repositories and
// the shared transaction manager.
var ProviderSet = wire.NewSet(
	NewPlayerGormRepository,
	NewServerGormRepository,
	NewAuthGormRepository,
	NewBanGormRepository,
	NewPluginGormRepository,
	NewMapCatalogGormRepository,
	NewRecordGormRepository,
	NewTxManager,
)
