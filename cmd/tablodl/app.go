package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/tablodl/internal/config"
	"github.com/vmunix/tablodl/internal/migrations"
	"github.com/vmunix/tablodl/internal/recordings"
	"github.com/vmunix/tablodl/pkg/tablo"
	_ "modernc.org/sqlite"
)

// overrides are the persistent flags that take precedence over the config file.
type overrides struct {
	IPs      []string
	Dir      string
	DB       string
	LogLevel string
	Verbose  bool
	DryRun   bool
}

func currentOverrides() overrides {
	return overrides{
		IPs:      deviceIPs,
		Dir:      recordingsDir,
		DB:       dbPath,
		LogLevel: logLevel,
		Verbose:  verbose,
		DryRun:   dryRun,
	}
}

// apply copies set flags into cfg. Verbose and dry-run force debug logging.
func (o overrides) apply(cfg *config.Config) {
	if len(o.IPs) > 0 {
		cfg.Tablo.IPs = o.IPs
	}
	if o.Dir != "" {
		cfg.Recordings.Directory = o.Dir
	}
	if o.DB != "" {
		cfg.Database.Path = o.DB
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Verbose || o.DryRun {
		cfg.Log.Level = "debug"
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

// openDB opens the SQLite database at path, creating it and its schema if needed.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Single writer keeps SQLite free of lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// app holds what every command needs.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	tablo *tablo.Client
	db    *sql.DB
}

// newApp loads the configuration and builds the logger and Tablo client.
// The database is opened only when withDB is set.
func newApp(withDB bool) (*app, error) {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	currentOverrides().apply(cfg)

	log := newLogger(os.Stderr, cfg.Log.Level)
	if path != "" {
		log.Debug("loaded config", "path", path)
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		tablo: tablo.NewClient(cfg.Tablo.DiscoveryURL, log),
	}
	if withDB {
		if a.db, err = openDB(cfg.Database.Path); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// device picks the device to act on: the first configured IP, else the first
// cached device, else the first device discovered on the network.
func (a *app) device(ctx context.Context) (string, error) {
	if len(a.cfg.Tablo.IPs) > 0 {
		return a.cfg.Tablo.IPs[0], nil
	}
	if a.db != nil {
		devices, err := recordings.NewStore(a.db).Devices()
		if err != nil {
			return "", err
		}
		if len(devices) > 0 {
			return devices[0], nil
		}
	}
	ips, err := a.tablo.LocalServers(ctx)
	if err != nil {
		return "", fmt.Errorf("discover devices: %w", err)
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("no tablo devices found, use --ip")
	}
	return ips[0], nil
}

// recordingsDirectory returns the configured recordings directory or an error
// when none is set.
func (a *app) recordingsDirectory() (string, error) {
	if a.cfg.Recordings.Directory == "" {
		return "", fmt.Errorf("no recordings directory, use --dir or recordings.directory")
	}
	return a.cfg.Recordings.Directory, nil
}
