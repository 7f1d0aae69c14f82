// Package media probes, validates, and remuxes recorded video files.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single ffprobe invocation.
const DefaultProbeTimeout = 30 * time.Second

// Prober reports the container duration of a media file.
type Prober interface {
	// Duration returns the duration in seconds, or false if it cannot be determined.
	Duration(ctx context.Context, path string) (float64, bool)
}

// runFunc executes a command and returns its stdout and stderr.
type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// FFProbe implements Prober with the ffprobe binary.
type FFProbe struct {
	binary  string
	timeout time.Duration
	run     runFunc
	log     *slog.Logger
}

// NewFFProbe creates a prober. Empty binary uses "ffprobe", zero timeout uses DefaultProbeTimeout.
func NewFFProbe(binary string, timeout time.Duration, log *slog.Logger) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &FFProbe{
		binary:  binary,
		timeout: timeout,
		run:     runCommand,
		log:     log.With("component", "ffprobe"),
	}
}

// Duration runs ffprobe against path and extracts format.duration.
// Failures are logged and reported as an unknown duration.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stdout, stderr, err := p.run(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			p.log.Warn("ffprobe timed out", "path", path, "timeout", p.timeout)
		case errors.Is(err, exec.ErrNotFound):
			p.log.Error("ffprobe not found, ensure ffmpeg is installed", "binary", p.binary)
		default:
			p.log.Warn("ffprobe failed", "path", path, "error", err, "stderr", strings.TrimSpace(string(stderr)))
		}
		return 0, false
	}

	duration, err := ParseDuration(stdout)
	if err != nil {
		p.log.Warn("failed to parse ffprobe output", "path", path, "error", err)
		return 0, false
	}
	return duration, true
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ParseDuration extracts a finite positive format.duration from ffprobe JSON output.
func ParseDuration(data []byte) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	raw := strings.TrimSpace(out.Format.Duration)
	if raw == "" || raw == "N/A" {
		return 0, errors.New("no format.duration in ffprobe output")
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return duration, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
