package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/stfnfhrmnn/vocabsync/internal/logger"
	"github.com/stfnfhrmnn/vocabsync/internal/service"
	"github.com/stfnfhrmnn/vocabsync/internal/store"
	"github.com/stfnfhrmnn/vocabsync/internal/workers"
)

// Enrollment is a one-time account link requested on the command line.
// A nil enrollment means the app starts from whatever session is already
// persisted on the device.
type Enrollment struct {
	// CreateAccount registers a new server account instead of logging in
	// to an existing one.
	CreateAccount bool
	Login         string
	Password      string
}

// App is the headless client runtime. It restores the device session,
// recovers the change queue after an unclean shutdown, and keeps the
// background sync job running until the process is told to stop.
type App struct {
	services   *service.ClientServices
	storages   *store.ClientStorages
	workers    *workers.Workers
	enrollment *Enrollment

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, storages *store.ClientStorages, workers *workers.Workers, enrollment *Enrollment, logger *logger.Logger) (*App, error) {
	if services == nil || storages == nil || workers == nil {
		return nil, fmt.Errorf("client app requires services, storages and workers")
	}

	return &App{
		services:   services,
		storages:   storages,
		workers:    workers,
		enrollment: enrollment,
		logger:     logger,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	registered, err := a.startup(ctx)
	if err != nil {
		return err
	}

	a.workers.Start(ctx)
	defer a.workers.Stop()

	if registered {
		a.services.SyncJob.Trigger(service.TriggerForeground)
	}

	<-ctx.Done()
	a.logger.Info().Msg("client shutting down")

	return nil
}

// startup prepares the device before any worker runs. The change queue is
// recovered first, a requested account link is performed, and the persisted
// session is restored. It reports whether the device ended up registered.
func (a *App) startup(ctx context.Context) (bool, error) {
	// Entries left in-flight by a crash between push and acknowledge are
	// made claimable again before the first cycle runs.
	recovered, err := a.storages.Queue.RecoverInFlight(ctx)
	if err != nil {
		return false, fmt.Errorf("recover change queue: %w", err)
	}
	if recovered > 0 {
		a.logger.Info().Int64("entries", recovered).Msg("requeued in-flight changes from previous run")
	}

	if a.enrollment != nil {
		if err = a.enroll(ctx); err != nil {
			return false, err
		}
	}

	registered, err := a.services.AuthService.RestoreSession(ctx)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !registered {
		a.logger.Info().Msg("device is not registered yet, sync stays parked until login")
	}

	return registered, nil
}

// enroll links the device to a server account and replaces local replicated
// state with the server's snapshot. Changes already queued on the device
// survive the enrollment and are pushed on the first cycle.
func (a *App) enroll(ctx context.Context) error {
	if a.enrollment.CreateAccount {
		if err := a.services.AuthService.Register(ctx, a.enrollment.Login, a.enrollment.Password); err != nil {
			return fmt.Errorf("register account: %w", err)
		}
		a.logger.Info().Str("login", a.enrollment.Login).Msg("account registered, device linked")
	} else {
		if err := a.services.AuthService.Login(ctx, a.enrollment.Login, a.enrollment.Password); err != nil {
			return fmt.Errorf("log in: %w", err)
		}
		a.logger.Info().Str("login", a.enrollment.Login).Msg("logged in, device linked")
	}

	if err := a.services.SyncService.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap after account link: %w", err)
	}

	return nil
}
