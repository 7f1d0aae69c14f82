package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".m4v": true, ".mpg": true, ".mpeg": true,
}

// IsVideoFile reports whether path has a video file extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Sender uploads a single file.
type Sender interface {
	Upload(ctx context.Context, path string, parentID int64) error
}

// Summary lists files by outcome, as paths relative to the directory.
// In a dry run Uploaded lists what would be uploaded.
type Summary struct {
	Uploaded []string
	Skipped  []string
	Failed   []string
}

// Uploader uploads the video files of a directory that are not in the ledger.
type Uploader struct {
	sender   Sender
	ledger   *Ledger
	parentID int64
	log      *slog.Logger
}

// NewUploader creates an Uploader targeting the put.io folder parentID.
func NewUploader(sender Sender, ledger *Ledger, parentID int64, log *slog.Logger) *Uploader {
	return &Uploader{
		sender:   sender,
		ledger:   ledger,
		parentID: parentID,
		log:      log.With("component", "upload"),
	}
}

// UploadDirectory uploads every video file in dir not uploaded before,
// in name order. A failed file does not stop the others.
func (u *Uploader) UploadDirectory(ctx context.Context, dir string, dryRun bool) (*Summary, error) {
	files, err := videoFiles(dir)
	if err != nil {
		return nil, err
	}
	u.log.Info("found video files", "count", len(files), "dir", dir)

	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	s := &Summary{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if err := u.one(ctx, dir, f, dryRun, s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// UploadNewest uploads the most recently modified video file in dir unless it
// was uploaded before.
func (u *Uploader) UploadNewest(ctx context.Context, dir string, dryRun bool) (*Summary, error) {
	files, err := videoFiles(dir)
	if err != nil {
		return nil, err
	}
	s := &Summary{}
	if len(files) == 0 {
		u.log.Info("no video files found", "dir", dir)
		return s, nil
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].ModTime().After(files[j].ModTime()) })
	newest := files[0]
	u.log.Info("found video files", "count", len(files), "newest", newest.Name())

	if err := u.one(ctx, dir, newest, dryRun, s); err != nil {
		return s, err
	}
	return s, nil
}

// one uploads a single file and records the outcome in s. Only ledger errors
// are returned.
func (u *Uploader) one(ctx context.Context, dir string, f os.FileInfo, dryRun bool, s *Summary) error {
	rel := f.Name()
	done, err := u.ledger.Has(rel)
	if err != nil {
		return err
	}
	if done {
		u.log.Info("skipping already uploaded", "file", rel)
		s.Skipped = append(s.Skipped, rel)
		return nil
	}

	if dryRun {
		u.log.Info("dry run: would upload", "file", rel)
		s.Uploaded = append(s.Uploaded, rel)
		return nil
	}

	if err := u.sender.Upload(ctx, filepath.Join(dir, rel), u.parentID); err != nil {
		u.log.Error("upload failed", "file", rel, "error", err)
		s.Failed = append(s.Failed, rel)
		return nil
	}
	if err := u.ledger.Add(rel, f.Size()); err != nil {
		return err
	}
	s.Uploaded = append(s.Uploaded, rel)
	return nil
}

func videoFiles(dir string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []os.FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsVideoFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, info)
	}
	return files, nil
}
