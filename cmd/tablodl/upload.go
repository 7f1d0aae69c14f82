package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/tablodl/internal/download"
	"github.com/vmunix/tablodl/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [dir]",
	Short: "Upload downloaded recordings to put.io",
	Long: `Uploads video files from the recordings directory to put.io. Files
already uploaded are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show download history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	uploadCmd.Flags().Bool("newest", false, "Upload only the most recently modified file")
	uploadCmd.Flags().String("token", "", "put.io OAuth token (overrides putio.token)")
	uploadCmd.Flags().Int64("parent-id", -1, "put.io folder ID (overrides putio.parent_id)")
	uploadCmd.Flags().Bool("list", false, "List files already uploaded and exit")

	historyCmd.Flags().Int("limit", 20, "Maximum entries to show, newest first (0 for all)")
	historyCmd.Flags().String("run", "", "Only downloads from this run ID")
	historyCmd.Flags().String("status", "", "Only downloads with this status")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	newest, _ := cmd.Flags().GetBool("newest")
	token, _ := cmd.Flags().GetString("token")
	parentID, _ := cmd.Flags().GetInt64("parent-id")
	list, _ := cmd.Flags().GetBool("list")

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ledger := upload.NewLedger(a.db)
	if list {
		entries, err := ledger.List()
		if err != nil {
			return err
		}
		printUploads(cmd.OutOrStdout(), entries)
		return nil
	}

	if token == "" {
		token = a.cfg.PutIO.Token
	}
	if token == "" && !dryRun {
		return fmt.Errorf("no put.io token, use --token or putio.token")
	}
	if parentID < 0 {
		parentID = a.cfg.PutIO.ParentID
	}

	dir := a.cfg.Recordings.Directory
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no recordings directory, use --dir or recordings.directory")
	}

	client := upload.NewClient(token, a.cfg.PutIO.UploadURL, a.log)
	uploader := upload.NewUploader(client, ledger, parentID, a.log)

	var summary *upload.Summary
	if newest {
		summary, err = uploader.UploadNewest(cmd.Context(), dir, dryRun)
	} else {
		summary, err = uploader.UploadDirectory(cmd.Context(), dir, dryRun)
	}
	if summary != nil {
		printUploadSummary(cmd, summary)
	}
	return err
}

func printUploadSummary(cmd *cobra.Command, s *upload.Summary) {
	out := cmd.OutOrStdout()
	verb := "Uploaded"
	if dryRun {
		verb = "Would upload"
	}
	for _, name := range s.Uploaded {
		fmt.Fprintf(out, "%s: %s\n", verb, name)
	}
	for _, name := range s.Failed {
		fmt.Fprintf(out, "Failed: %s\n", name)
	}
	fmt.Fprintf(out, "%d uploaded, %d skipped, %d failed\n", len(s.Uploaded), len(s.Skipped), len(s.Failed))
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	status, _ := cmd.Flags().GetString("status")

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := historyFilter(limit, runID, status)
	if err != nil {
		return err
	}
	ds, err := download.NewStore(a.db).List(f)
	if err != nil {
		return err
	}
	printDownloads(cmd.OutOrStdout(), ds)
	return nil
}

func historyFilter(limit int, runID, status string) (download.Filter, error) {
	f := download.Filter{RunID: runID, Limit: limit}
	if status == "" {
		return f, nil
	}
	s := download.Status(status)
	switch s {
	case download.StatusDownloading, download.StatusCompleted, download.StatusFailed, download.StatusSkipped:
		f.Status = &s
		return f, nil
	}
	return f, fmt.Errorf("unknown status %q", status)
}
