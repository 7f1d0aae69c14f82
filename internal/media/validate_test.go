package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber returns a fixed duration and counts calls.
type fakeProber struct {
	duration float64
	ok       bool
	calls    int
}

func (f *fakeProber) Duration(ctx context.Context, path string) (float64, bool) {
	f.calls++
	return f.duration, f.ok
}

func ptr(f float64) *float64 { return &f }

// writeSizedFile creates a sparse file of the given size.
func writeSizedFile(t *testing.T, dir, name string, size int64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

func bigFile(t *testing.T) string {
	t.Helper()
	return writeSizedFile(t, t.TempDir(), "video.mp4", MinFileSize+1000)
}

func TestValidate_NonexistentFile(t *testing.T) {
	prober := &fakeProber{duration: 3600, ok: true}
	v := NewValidator(prober, testLogger())

	r := v.Validate(context.Background(), "/nonexistent/path.mp4", ptr(3600), DefaultTolerance)
	assert.False(t, r.Valid)
	assert.Contains(t, r.Reason, "does not exist")
	assert.Nil(t, r.ActualDuration)
	assert.Nil(t, r.Deviation)
	assert.Equal(t, 0, prober.calls, "should not probe a missing file")
}

func TestValidate_SmallFile(t *testing.T) {
	prober := &fakeProber{duration: 3600, ok: true}
	v := NewValidator(prober, testLogger())
	path := writeSizedFile(t, t.TempDir(), "small.mp4", 5)

	ok, reason := v.Check(context.Background(), path, nil, DefaultTolerance)
	assert.False(t, ok)
	assert.Contains(t, reason, "too small")
	assert.Contains(t, reason, "5 bytes")
	assert.Contains(t, reason, "1048576")
	assert.Equal(t, 0, prober.calls)
}

func TestValidate_ExactlyMinimumSizeIsAccepted(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 60, ok: true}, testLogger())
	path := writeSizedFile(t, t.TempDir(), "edge.mp4", MinFileSize)

	r := v.Validate(context.Background(), path, nil, DefaultTolerance)
	assert.True(t, r.Valid)
	assert.Equal(t, int64(MinFileSize), r.Size)
}

func TestValidate_CannotDetermineDuration(t *testing.T) {
	v := NewValidator(&fakeProber{ok: false}, testLogger())

	r := v.Validate(context.Background(), bigFile(t), ptr(3600), DefaultTolerance)
	assert.False(t, r.Valid)
	assert.Contains(t, r.Reason, "Cannot determine")
	assert.Nil(t, r.ActualDuration)
	assert.Nil(t, r.Deviation)
	require.NotNil(t, r.ExpectedDuration)
	assert.Equal(t, 3600.0, *r.ExpectedDuration)
}

func TestValidate_DurationMismatch(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 1000, ok: true}, testLogger())

	r := v.Validate(context.Background(), bigFile(t), ptr(3600), DefaultTolerance)
	assert.False(t, r.Valid)
	assert.Contains(t, r.Reason, "Duration mismatch")
	assert.Contains(t, r.Reason, "1000.0s actual vs 3600.0s expected (72.2% deviation)")
	require.NotNil(t, r.Deviation)
	assert.InDelta(t, 2600.0/3600.0, *r.Deviation, 1e-12)
}

func TestValidate_MatchingDuration(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 3500, ok: true}, testLogger())

	r := v.Validate(context.Background(), bigFile(t), ptr(3600), DefaultTolerance)
	assert.True(t, r.Valid)
	assert.Contains(t, r.Reason, "Valid")
	require.NotNil(t, r.Deviation)
	assert.InDelta(t, 0.0278, *r.Deviation, 1e-4)
	require.NotNil(t, r.ActualDuration)
	assert.Equal(t, 3500.0, *r.ActualDuration)
}

func TestValidate_WithoutExpectedDuration(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 3600, ok: true}, testLogger())

	r := v.Validate(context.Background(), bigFile(t), nil, DefaultTolerance)
	assert.True(t, r.Valid)
	assert.Equal(t, "Valid (duration: 3600.0s)", r.Reason)
	assert.Nil(t, r.Deviation)
	assert.Nil(t, r.ExpectedDuration)
}

func TestValidate_NonPositiveExpectedIgnored(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 10, ok: true}, testLogger())
	path := bigFile(t)

	for _, expected := range []float64{0, -3600} {
		r := v.Validate(context.Background(), path, ptr(expected), DefaultTolerance)
		assert.True(t, r.Valid, "expected=%v", expected)
		assert.Nil(t, r.Deviation, "expected=%v", expected)
	}
}

func TestValidate_CustomTolerance(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 3000, ok: true}, testLogger())
	path := bigFile(t)

	ok, _ := v.Check(context.Background(), path, ptr(3600), 0.10)
	assert.False(t, ok, "16.7% deviation exceeds 10%")

	ok, _ = v.Check(context.Background(), path, ptr(3600), 0.20)
	assert.True(t, ok, "16.7% deviation is within 20%")
}

func TestValidate_DeviationAtToleranceIsValid(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 75, ok: true}, testLogger())

	r := v.Validate(context.Background(), bigFile(t), ptr(100), 0.25)
	assert.True(t, r.Valid)
	require.NotNil(t, r.Deviation)
	assert.Equal(t, 0.25, *r.Deviation)
}

func TestValidate_ProbesOncePerCall(t *testing.T) {
	prober := &fakeProber{duration: 3600, ok: true}
	v := NewValidator(prober, testLogger())
	path := bigFile(t)

	v.Validate(context.Background(), path, nil, DefaultTolerance)
	v.Validate(context.Background(), path, nil, DefaultTolerance)
	assert.Equal(t, 2, prober.calls)
}

func TestCheck_AgreesWithValidate(t *testing.T) {
	dir := t.TempDir()
	small := writeSizedFile(t, dir, "small.mp4", 100)
	large := writeSizedFile(t, dir, "large.mp4", MinFileSize*2)

	cases := []struct {
		path      string
		prober    *fakeProber
		expected  *float64
		tolerance float64
	}{
		{"/missing.mp4", &fakeProber{duration: 1, ok: true}, nil, 0.1},
		{small, &fakeProber{duration: 3600, ok: true}, ptr(3600), 0.1},
		{large, &fakeProber{ok: false}, ptr(3600), 0.1},
		{large, &fakeProber{duration: 3500, ok: true}, ptr(3600), 0.1},
		{large, &fakeProber{duration: 1000, ok: true}, ptr(3600), 0.1},
		{large, &fakeProber{duration: 3000, ok: true}, ptr(3600), 0.2},
		{large, &fakeProber{duration: 3000, ok: true}, nil, 0.0},
		{large, &fakeProber{duration: 3000, ok: true}, ptr(-1), 0.0},
	}

	for _, c := range cases {
		v := NewValidator(c.prober, testLogger())
		detailed := v.Validate(context.Background(), c.path, c.expected, c.tolerance)
		ok, reason := v.Check(context.Background(), c.path, c.expected, c.tolerance)
		assert.Equal(t, detailed.Valid, ok, "path=%s", c.path)
		assert.Equal(t, detailed.Reason, reason, "path=%s", c.path)
	}
}

func TestDeviation(t *testing.T) {
	assert.InDelta(t, 0.7222, Deviation(1000, 3600), 1e-4)
	assert.InDelta(t, 0.1667, Deviation(3000, 3600), 1e-4)
	assert.InDelta(t, 0.1, Deviation(3960, 3600), 1e-12)
	assert.Equal(t, 0.0, Deviation(3600, 3600))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "72.2%", Percent(2600.0/3600.0))
	assert.Equal(t, "2.8%", Percent(100.0/3600.0))
	assert.Equal(t, "0.0%", Percent(0))
}

func TestValidator_Directory(t *testing.T) {
	dir := t.TempDir()
	writeSizedFile(t, dir, "b_show.mp4", MinFileSize+1)
	writeSizedFile(t, dir, "a_show.mp4", 10)
	writeSizedFile(t, dir, "notes.txt", MinFileSize+1)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0755))

	v := NewValidator(&fakeProber{duration: 1800, ok: true}, testLogger())
	report, err := v.Directory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Results, 2)
	assert.Equal(t, filepath.Join(dir, "a_show.mp4"), report.Results[0].Path)
	assert.False(t, report.Results[0].Valid)
	assert.True(t, report.Results[1].Valid)
}

func TestValidator_Directory_Missing(t *testing.T) {
	v := NewValidator(&fakeProber{}, testLogger())
	_, err := v.Directory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestValidate_ResultOwnsExpectedDuration(t *testing.T) {
	v := NewValidator(&fakeProber{duration: 3500, ok: true}, testLogger())

	expected := 3600.0
	r := v.Validate(context.Background(), bigFile(t), &expected, DefaultTolerance)
	expected = 1

	require.NotNil(t, r.ExpectedDuration)
	assert.Equal(t, 3600.0, *r.ExpectedDuration)
	assert.True(t, r.Valid)
}
