package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/vmunix/tablodl/internal/download"
	"github.com/vmunix/tablodl/internal/media"
	"github.com/vmunix/tablodl/internal/upload"
)

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format details: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// printValidation writes one line per file followed by a summary. Files that
// could not be probed count as errors.
func printValidation(w io.Writer, r *media.DirectoryReport) {
	errs := 0
	for _, res := range r.Results {
		name := filepath.Base(res.Path)
		if res.Valid {
			fmt.Fprintf(w, "VALID:   %s - %s\n", name, res.Reason)
			continue
		}
		if res.ActualDuration == nil && res.Size >= media.MinFileSize {
			errs++
		}
		fmt.Fprintf(w, "INVALID: %s - %s\n", name, res.Reason)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Validation Summary ===")
	fmt.Fprintf(w, "Valid:   %d\n", r.Valid)
	fmt.Fprintf(w, "Invalid: %d\n", r.Invalid)
	fmt.Fprintf(w, "Errors:  %d\n", errs)
}

func printDownloads(w io.Writer, ds []*download.Download) {
	if len(ds) == 0 {
		fmt.Fprintln(w, "No downloads found.")
		return
	}
	fmt.Fprintf(w, "%-5s %-12s %-16s %-19s %s\n", "ID", "STATUS", "DEVICE", "STARTED", "FILE")
	for _, d := range ds {
		fmt.Fprintf(w, "%-5d %-12s %-16s %-19s %s\n",
			d.ID, d.Status, d.Device, d.StartedAt.Local().Format("2006-01-02 15:04:05"), filepath.Base(d.FilePath))
		if d.Reason != "" {
			fmt.Fprintf(w, "      %s\n", d.Reason)
		}
	}
}

func printUploads(w io.Writer, entries []upload.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No uploads recorded.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %8.1f MB  %s\n",
			e.UploadedAt.Local().Format("2006-01-02 15:04"), float64(e.Size)/(1024*1024), e.Path)
	}
}
