package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/tablodl/internal/download"
	"github.com/vmunix/tablodl/internal/media"
	"github.com/vmunix/tablodl/internal/reconcile"
	"github.com/vmunix/tablodl/internal/recordings"
)

var downloadCmd = &cobra.Command{
	Use:   "download [recording]",
	Short: "Download a recording as MP4",
	Long: `Downloads a recording by its path on the device, or the most recent
recording whose show title matches --show.

An existing file at the target path is checked first. Complete files are
kept, damaged ones are replaced, and duration mismatches ask before
downloading again.`,
	Example: `  tablodl download /recordings/series/episodes/12345
  tablodl download --show "Nova" --delete-originals`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate downloaded recordings",
	Long:  "Checks every .mp4 file in the recordings directory for a plausible size and a readable duration.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	downloadCmd.Flags().String("show", "", "Download the most recent recording of this show")
	downloadCmd.Flags().Bool("overwrite", false, "Replace an existing file without checking it")
	downloadCmd.Flags().Bool("delete-originals", false, "Delete the recording from the device after a verified download")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(validateCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	show, _ := cmd.Flags().GetString("show")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	deleteOriginals, _ := cmd.Flags().GetBool("delete-originals")

	if len(args) == 0 && show == "" {
		return fmt.Errorf("give a recording path or --show")
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	dir, err := a.recordingsDirectory()
	if err != nil {
		return err
	}
	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create recordings directory: %w", err)
		}
	}
	device, err := a.device(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prober := media.NewFFProbe(a.cfg.Tools.FFprobe, a.cfg.Tools.ProbeTimeout, a.log)
	validator := media.NewValidator(prober, a.log)
	reconciler := reconcile.New(validator, reconcile.NewConsoleConfirmer(os.Stdin, out), a.log)
	history := download.NewStore(a.db)
	history.OnTransition(func(e download.TransitionEvent) {
		a.log.Debug("download status changed", "id", e.DownloadID, "from", e.From, "to", e.To, "reason", e.Reason)
	})
	mgr := download.NewManager(
		a.tablo,
		media.NewFFmpeg(a.cfg.Tools.FFmpeg, a.log),
		reconciler,
		recordings.NewStore(a.db),
		history,
		a.log,
	)
	a.log.Debug("starting download run", "run_id", mgr.RunID())

	req := download.Request{
		Device:         device,
		Show:           show,
		Directory:      dir,
		Overwrite:      overwrite,
		DryRun:         dryRun,
		DeleteOriginal: deleteOriginals || a.cfg.Recordings.DeleteOriginals,
	}
	if len(args) > 0 {
		req.RecordingID = args[0]
	}

	res, err := mgr.Download(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, download.ErrRecordingNotFound) {
			return fmt.Errorf("%w (run 'tablodl updatedb' to refresh the cache)", err)
		}
		return err
	}

	switch {
	case req.DryRun:
		fmt.Fprintf(out, "Would download %q to %s\n", res.Title, res.Path)
	case res.Status == download.StatusSkipped:
		fmt.Fprintf(out, "Skipped %s (%s)\n", res.Path, res.Plan.Cause)
	default:
		fmt.Fprintf(out, "Downloaded %q to %s\n", res.Title, res.Path)
		if res.Deleted {
			fmt.Fprintf(out, "Deleted %s from %s\n", res.Recording, device)
		}
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	dir := a.cfg.Recordings.Directory
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no recordings directory, use --dir or recordings.directory")
	}

	prober := media.NewFFProbe(a.cfg.Tools.FFprobe, a.cfg.Tools.ProbeTimeout, a.log)
	report, err := media.NewValidator(prober, a.log).Directory(cmd.Context(), dir)
	if err != nil {
		return err
	}
	printValidation(cmd.OutOrStdout(), report)
	return nil
}
