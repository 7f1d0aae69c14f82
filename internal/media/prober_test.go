package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func stubRun(stdout string, err error) runFunc {
	return func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte(stdout), nil, err
	}
}

func TestFFProbe_Duration(t *testing.T) {
	p := NewFFProbe("", 0, testLogger())
	var gotName string
	var gotArgs []string
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotName, gotArgs = name, args
		return []byte(`{"format": {"duration": "3456.789"}}`), nil, nil
	}

	d, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	require.True(t, ok)
	assert.InDelta(t, 3456.789, d, 1e-9)
	assert.Equal(t, "ffprobe", gotName)
	assert.Equal(t, []string{"-v", "error", "-show_entries", "format=duration", "-of", "json", "/path/to/video.mp4"}, gotArgs)
}

func TestFFProbe_Duration_NonZeroExit(t *testing.T) {
	p := NewFFProbe("", 0, testLogger())
	p.run = stubRun("", errors.New("exit status 1"))

	_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	assert.False(t, ok)
}

func TestFFProbe_Duration_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewFFProbe("", 0, captureLogger(&buf))
	p.run = stubRun("not json", nil)

	_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "failed to parse ffprobe output")
}

func TestFFProbe_Duration_MissingDuration(t *testing.T) {
	p := NewFFProbe("", 0, testLogger())
	p.run = stubRun(`{"format": {}}`, nil)

	_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	assert.False(t, ok)
}

func TestFFProbe_Duration_Timeout(t *testing.T) {
	var buf bytes.Buffer
	p := NewFFProbe("", 10*time.Millisecond, captureLogger(&buf))
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "ffprobe timed out")
}

func TestFFProbe_Duration_ToolMissing(t *testing.T) {
	var buf bytes.Buffer
	p := NewFFProbe("", 0, captureLogger(&buf))
	p.run = stubRun("", &exec.Error{Name: "ffprobe", Err: exec.ErrNotFound})

	_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "ffprobe not found")
}

func TestNewFFProbe_Defaults(t *testing.T) {
	p := NewFFProbe("", 0, nil)
	assert.Equal(t, "ffprobe", p.binary)
	assert.Equal(t, DefaultProbeTimeout, p.timeout)

	p = NewFFProbe("/opt/bin/ffprobe", 5*time.Second, nil)
	assert.Equal(t, "/opt/bin/ffprobe", p.binary)
	assert.Equal(t, 5*time.Second, p.timeout)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"valid", `{"format":{"duration":"1800.5"}}`, 1800.5, false},
		{"whitespace", `{"format":{"duration":" 60 "}}`, 60, false},
		{"not available", `{"format":{"duration":"N/A"}}`, 0, true},
		{"zero", `{"format":{"duration":"0.000000"}}`, 0, true},
		{"garbage", `{"format":{"duration":"abc"}}`, 0, true},
		{"nan", `{"format":{"duration":"NaN"}}`, 0, true},
		{"lowercase nan", `{"format":{"duration":"nan"}}`, 0, true},
		{"infinity", `{"format":{"duration":"inf"}}`, 0, true},
		{"negative infinity", `{"format":{"duration":"-Inf"}}`, 0, true},
		{"negative", `{"format":{"duration":"-12.5"}}`, 0, true},
		{"empty object", `{}`, 0, true},
		{"truncated", `{"format":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFFProbe_Duration_NotANumber(t *testing.T) {
	for _, raw := range []string{"NaN", "inf", "-Inf"} {
		t.Run(raw, func(t *testing.T) {
			p := NewFFProbe("", 0, testLogger())
			p.run = stubRun(`{"format": {"duration": "`+raw+`"}}`, nil)

			_, ok := p.Duration(context.Background(), "/path/to/video.mp4")
			assert.False(t, ok)
		})
	}
}
