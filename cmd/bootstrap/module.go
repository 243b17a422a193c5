package bootstrap

import (
	"fieldbook/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.ExternalModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.SchedulerModule,
)
