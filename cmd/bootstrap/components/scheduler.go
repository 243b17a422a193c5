package components

import (
	"context"
	"log/slog"

	"fieldbook/internal/infra/notify"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/config"
	"fieldbook/internal/scheduler"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/shared"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(RegisterScheduler),
)

func RegisterScheduler(
	lc fx.Lifecycle,
	cfg config.Config,
	uow shared.UnitOfWork,
	matchCommands commands.MatchCommands,
	notifier notify.Dispatcher,
	clk clock.Clock,
) error {
	if !cfg.Scheduler.Enabled {
		slog.Info("scheduler disabled by configuration")
		return nil
	}

	svc, err := scheduler.NewService(cfg.Scheduler, uow, matchCommands, notifier, clk)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			svc.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return svc.Stop()
		},
	})
	return nil
}
