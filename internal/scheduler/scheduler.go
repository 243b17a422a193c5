package scheduler

import (
	"context"
	"log/slog"
	"time"

	"fieldbook/internal/infra/notify"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/config"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/commands"
	"fieldbook/internal/usecase/shared"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const (
	leaseMatchReconcile = "match-reconcile"
	leaseBookingSweep   = "booking-sweep"

	jobTimeout = 2 * time.Minute
)

// Service hosts the two reconciliation jobs. Each run is guarded by a named
// TTL lease in the database, so concurrent deployments cannot run the same
// job twice inside one lease window.
type Service struct {
	scheduler gocron.Scheduler
	cfg       config.SchedulerConfig
	uow       shared.UnitOfWork
	matches   commands.MatchCommands
	notifier  notify.Dispatcher
	clock     clock.Clock

	// holder identifies this process in the lease table.
	holder uuid.UUID
}

func NewService(
	cfg config.SchedulerConfig,
	uow shared.UnitOfWork,
	matches commands.MatchCommands,
	notifier notify.Dispatcher,
	clk clock.Clock,
) (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					slog.Error("scheduler job panicked",
						"job_id", jobID.String(), "job_name", jobName, "panic", recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create scheduler")
	}

	s := &Service{
		scheduler: sched,
		cfg:       cfg,
		uow:       uow,
		matches:   matches,
		notifier:  notifier,
		clock:     clk,
		holder:    uuid.New(),
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.ReconcileInterval),
		gocron.NewTask(s.runMatchReconciliation),
		gocron.WithName("match-reconciliation"),
	); err != nil {
		return nil, errs.Wrap(err, "failed to register match reconciliation job")
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SweepInterval),
		gocron.NewTask(s.runBookingSweep),
		gocron.WithName("booking-sweep"),
	); err != nil {
		return nil, errs.Wrap(err, "failed to register booking sweep job")
	}

	return s, nil
}

func (s *Service) Start() {
	slog.Info("scheduler starting",
		"reconcile_interval", s.cfg.ReconcileInterval,
		"sweep_interval", s.cfg.SweepInterval)
	s.scheduler.Start()
}

func (s *Service) Stop() error {
	slog.Info("scheduler stopping")
	return s.scheduler.Shutdown()
}

// tryAcquireLease claims the named lease for this process. A false return
// means another runner holds it and this run should be skipped.
func (s *Service) tryAcquireLease(ctx context.Context, name string) (bool, error) {
	var acquired bool
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Leases().TryAcquire(ctx, tx.DB(), name, s.holder, s.cfg.LeaseTTL, s.clock.Now())
		if err != nil {
			return err
		}
		acquired = ok
		return nil
	})
	return acquired, err
}

func (s *Service) releaseLease(ctx context.Context, name string) {
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Leases().Release(ctx, tx.DB(), name, s.holder)
	})
	if err != nil {
		slog.Warn("failed to release scheduler lease", "lease", name, "error", err)
	}
}
