package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkordes/trippacks/internal/config"
	"github.com/pkordes/trippacks/internal/notify"
	"github.com/pkordes/trippacks/internal/repo"
	"github.com/pkordes/trippacks/internal/service"
	"github.com/pkordes/trippacks/internal/store"
)

// app is every component wired over one open store.
type app struct {
	store   *store.Store
	hub     *notify.Hub
	records *repo.Records
	trips   *service.TripService
	stops   *service.StopService
	export  *service.ExportService
}

// databasePath resolves --db, then DATABASE_PATH, then the default.
func (o *RootOptions) databasePath() (string, error) {
	if o.Database != "" {
		return o.Database, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DatabasePath, nil
}

// openApp opens the database and wires the repository and services.
// The caller must call close.
func openApp(ctx context.Context, opts *RootOptions, log *slog.Logger) (*app, error) {
	path, err := opts.databasePath()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.logLevel()}))
	}

	st, err := store.Open(ctx, path, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	hub := notify.NewHub()
	records := repo.NewRecords(st.DB(), repo.WithPublisher(hub), repo.WithLogger(log))
	return &app{
		store:   st,
		hub:     hub,
		records: records,
		trips:   service.NewTripService(records),
		stops:   service.NewStopService(records),
		export:  service.NewExportService(records),
	}, nil
}

func (a *app) close() error {
	return a.store.Close()
}
