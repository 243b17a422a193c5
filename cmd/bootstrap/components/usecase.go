package components

import (
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewMatchQueries,
		queries.NewWalletQueries,
		queries.NewFieldQueries,
		commands.NewBookingCommands,
		commands.NewMatchCommands,
		commands.NewWalletCommands,
	),
)
