package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath    string
	deviceIPs     []string
	recordingsDir string
	dbPath        string
	logLevel      string
	verbose       bool
	dryRun        bool
)

var rootCmd = &cobra.Command{
	Use:   "tablodl",
	Short: "Download recordings from Tablo DVRs",
	Long: `tablodl - download recordings from Tablo DVRs

Keeps a local cache of the recordings on each Tablo device, saves
recordings as MP4 files with ffmpeg, checks downloads with ffprobe,
and optionally uploads them to put.io.

Examples:
  tablodl updatedb                       # Refresh the recordings cache
  tablodl dump                           # List cached recordings
  tablodl download --show "Nova"         # Download the newest matching recording
  tablodl validate                       # Check downloaded files
  tablodl upload --newest                # Upload the newest download to put.io`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: discovered)")
	flags.StringSliceVar(&deviceIPs, "ip", nil, "Tablo device IP, repeatable or comma-separated")
	flags.StringVar(&recordingsDir, "dir", "", "Recordings directory")
	flags.StringVar(&dbPath, "db", "", "Database path")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVar(&dryRun, "dry-run", false, "Show what would be done without changing anything")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tablodl {{.Version}}\n")
}
