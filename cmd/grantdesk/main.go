package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/grantdesk/internal/auth"
	"github.com/alexanderramin/grantdesk/internal/cli"
	"github.com/alexanderramin/grantdesk/internal/config"
	"github.com/alexanderramin/grantdesk/internal/db"
	"github.com/alexanderramin/grantdesk/internal/logger"
	"github.com/alexanderramin/grantdesk/internal/mapping"
	"github.com/alexanderramin/grantdesk/internal/remote"
	"github.com/alexanderramin/grantdesk/internal/service"
	"github.com/alexanderramin/grantdesk/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	app := &cli.App{
		Config: cfg,
		Log:    log,
		State:  session.NewFileStore(cfg.StateFile),
	}
	observer := service.NewLogUseCaseObserver(log)

	switch cfg.Backend {
	case config.BackendLocal:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		backend := service.NewLocalBackend(database, observer)
		app.Backend = backend
		app.Calls = backend
		app.Preview = mapping.NewPreviewer("file://")
	default:
		client := remote.NewClient(remote.Config{
			BaseURL:    cfg.APIURL,
			Timeout:    cfg.Timeout(),
			MaxRetries: cfg.MaxRetries,
		}, auth.NewTokenSource(cfg.Token), remote.NewLogObserver(log))
		app.Backend = client
		app.Preview = mapping.NewPreviewer(cfg.MediaURL)
	}
	app.Dashboard = service.NewDashboardService(app.Backend, app.Backend, observer)

	// Bare 'grantdesk' opens the editor only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
