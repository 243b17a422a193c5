package components

import (
	"fieldbook/internal/handler"
	"fieldbook/internal/handler/api"
	"fieldbook/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewMatchHandler,
		api.NewWalletHandler,
		api.NewFieldHandler,
		api.NewWebhookHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
