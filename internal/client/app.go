// Package client assembles the sync client: local store, snapshot backend,
// merger, and the sync service, and runs them in one of three modes: a
// one-shot sync, an interactive terminal UI, or a background watch loop.
package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-note-sync/internal/backend"
	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/merge"
	"github.com/MKhiriev/go-note-sync/internal/progress"
	"github.com/MKhiriev/go-note-sync/internal/store"
	"github.com/MKhiriev/go-note-sync/internal/sync"
	"github.com/MKhiriev/go-note-sync/internal/tui"
	"github.com/MKhiriev/go-note-sync/internal/workers"
	"github.com/MKhiriev/go-note-sync/models"
)

// Mode names accepted by Run.
const (
	ModePull  = "pull"
	ModePush  = "push"
	ModeBoth  = "both"
	ModeTUI   = "tui"
	ModeWatch = "watch"
)

// App owns the client's wiring. The sync service itself is built per run
// because the terminal UI supplies its own progress reporter.
type App struct {
	cfg    *config.ClientConfig
	local  *store.DB
	remote backend.Backend
	merger merge.Merger
	logger *logger.Logger
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	local, err := store.Open(context.Background(), cfg.Storage.DB.Path, log)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}
	if err = local.EnsureInitialized(); err != nil {
		local.Close()
		return nil, fmt.Errorf("error initializing local store: %w", err)
	}

	remote, err := backend.New(cfg.Backend, log)
	if err != nil {
		local.Close()
		return nil, fmt.Errorf("error creating backend: %w", err)
	}

	return &App{
		cfg:    cfg,
		local:  local,
		remote: remote,
		merger: merge.NewNotesMerger(log),
		logger: log,
	}, nil
}

// Close releases the local store.
func (a *App) Close() error {
	return a.local.Close()
}

// Run executes the requested mode and returns the sync outcome message for
// modes that produce one.
func (a *App) Run(mode string) (string, error) {
	switch mode {
	case ModePull, ModePush, ModeBoth:
		result, err := a.syncOnce(models.SyncDirection(mode))
		if err != nil {
			return "", err
		}
		return result.Message, nil

	case ModeTUI:
		result, err := tui.Run(models.SyncBoth, func(p progress.Progress) tui.Syncer {
			return a.newService(p)
		}, a.logger)
		if err != nil {
			return "", err
		}
		return result.Message, nil

	case ModeWatch:
		a.watch()
		return "", nil

	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}
}

func (a *App) newService(p progress.Progress) *sync.Service {
	return sync.NewService(a.local, a.remote, a.merger, p, a.cfg.Sync, a.logger)
}

func (a *App) syncOnce(direction models.SyncDirection) (models.SyncResult, error) {
	svc := a.newService(progress.NewLogProgress(a.logger))
	return svc.Sync(context.Background(), direction)
}

// watch runs the periodic sync job until a stop signal arrives.
func (a *App) watch() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	svc := a.newService(progress.NewLogProgress(a.logger))
	job := workers.NewSyncJob(svc, a.cfg.Workers.SyncInterval, a.logger)

	workers.NewWorkers(job).Run(ctx)
}
