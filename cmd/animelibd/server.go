package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/animelib/internal/api/v1"
	"github.com/vmunix/animelib/internal/config"
	"github.com/vmunix/animelib/internal/connections"
	"github.com/vmunix/animelib/internal/covercache"
	"github.com/vmunix/animelib/internal/crashlog"
	"github.com/vmunix/animelib/internal/download"
	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/extension"
	"github.com/vmunix/animelib/internal/interactor"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/migrations"
	"github.com/vmunix/animelib/internal/preference"
	"github.com/vmunix/animelib/internal/server"
	"github.com/vmunix/animelib/internal/tracker"
)

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closer := cfg.Log.NewLogger(os.Stderr)
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))

	// === Preferences ===
	prefStore := preference.NewSQLStore(db, bus, logger)
	var secrets preference.Store = prefStore
	if cfg.Library.UseKeyring {
		secrets = preference.NewKeyringStore(preference.DefaultKeyringService)
	}
	libraryPrefs := preference.NewLibraryPreferences(prefStore)
	basePrefs := preference.NewBasePreferences(prefStore, true)
	if err := seedDownloadedOnly(ctx, basePrefs, cfg.Library.DownloadedOnly); err != nil {
		return fmt.Errorf("seed preferences: %w", err)
	}

	// === Library ===
	libraryStore := library.NewStore(db)
	covers := covercache.New(afero.NewOsFs(), filepath.Join(cfg.Library.CacheDir, "covers"))

	deps := v1.ServerDeps{
		Library:      libraryStore,
		Preferences:  prefStore,
		LibraryPrefs: libraryPrefs,
		BasePrefs:    basePrefs,
		EpisodeFlags: interactor.NewSetEpisodeFlags(libraryStore, bus, logger),
		ViewerFlags:  interactor.NewSetViewerFlags(libraryStore, bus, logger),
		UpdateAnime:  interactor.NewUpdateAnime(libraryStore, covers, bus, logger),
		SortMode:     interactor.NewSetSortModeForCategory(libraryPrefs, libraryStore, bus, logger),
		Trackers:     tracker.NewManager(preference.NewTrackPreferences(prefStore, secrets)),
		Connections:  connections.NewManager(preference.NewConnectionsPreferences(prefStore, secrets), bus, logger),
		Downloads:    download.NewManager(download.NewStore(db), bus, logger),
		EventLog:     eventLog,
		CrashLogs: crashlog.New(afero.NewOsFs(), cfg.Library.CacheDir, cfg.Log.File, version,
			extension.FileSource{
				FS:            afero.NewOsFs(),
				IndexPath:     cfg.Library.ExtensionIndex,
				InstalledPath: cfg.Library.InstalledExtensions,
			}, logger),
	}

	api, err := v1.New(deps, logger)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	logger.Info("server starting",
		"addr", addr,
		"config", configPath,
		"database", cfg.Database.Path,
		"keyring", cfg.Library.UseKeyring,
		"log_level", cfg.Log.Level,
	)

	runner := server.NewRunner(v1.LogRequests(mux, logger), eventLog, bus, server.Config{
		Addr:           addr,
		EventRetention: cfg.Events.Retention,
		PruneInterval:  cfg.Events.PruneInterval,
	}, logger)
	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// seedDownloadedOnly copies the configured default into the preference
// store the first time the daemon starts.
func seedDownloadedOnly(ctx context.Context, prefs *preference.BasePreferences, v bool) error {
	p := prefs.DownloadedOnly()
	set, err := p.IsSet(ctx)
	if err != nil || set {
		return err
	}
	return p.Set(ctx, v)
}
