package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrToolNotFound indicates the ffmpeg binary is not installed.
var ErrToolNotFound = errors.New("ffmpeg not found")

// TranscodeError reports a non-zero ffmpeg exit.
type TranscodeError struct {
	Code   int
	Stderr string
}

func (e *TranscodeError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.Code, e.Stderr)
}

// FFmpeg remuxes HLS playlists into MP4 files.
type FFmpeg struct {
	binary string
	log    *slog.Logger
}

// NewFFmpeg creates a transcoder. Empty binary uses "ffmpeg".
func NewFFmpeg(binary string, log *slog.Logger) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if log == nil {
		log = slog.Default()
	}
	return &FFmpeg{binary: binary, log: log.With("component", "ffmpeg")}
}

// Args returns the ffmpeg arguments for a stream copy of playlist into dest.
func (f *FFmpeg) Args(playlist, dest, title string) []string {
	return []string{
		"-hide_banner", "-loglevel", "warning",
		"-protocol_whitelist", "file,http,https,tcp,tls,crypto",
		"-i", playlist,
		"-c", "copy",
		"-metadata", "title=" + title,
		dest,
	}
}

// Transcode stream-copies playlist into dest and tags it with title.
// A nil error only means ffmpeg exited zero; the output still needs validation.
func (f *FFmpeg) Transcode(ctx context.Context, playlist, dest, title string) error {
	args := f.Args(playlist, dest, title)
	f.log.Debug("running ffmpeg", "cmd", f.binary+" "+strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, f.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, f.binary)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &TranscodeError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
	}
	return fmt.Errorf("run ffmpeg: %w", err)
}
