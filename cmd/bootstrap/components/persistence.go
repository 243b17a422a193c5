package components

import (
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories live inside the unit of work; only the read stores and the
// unit of work itself are wired here.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		readstore.NewFieldReadStore,
		readstore.NewBookingReadStore,
		readstore.NewMatchReadStore,
		readstore.NewWalletReadStore,
	),
)
