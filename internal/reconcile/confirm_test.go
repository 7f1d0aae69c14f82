package reconcile

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"  y \n", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConsoleConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), Mismatch{
				Path:      "/data/Show.mp4",
				Actual:    2700,
				Expected:  3600,
				Deviation: 0.25,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleConfirmer_PromptText(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleConfirmer(strings.NewReader("n\n"), &out)

	_, err := c.Confirm(context.Background(), Mismatch{
		Path:      "/data/Show.mp4",
		Actual:    2700,
		Expected:  3600,
		Deviation: 0.25,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "File exists: /data/Show.mp4")
	assert.Contains(t, text, "Actual duration:   2700.0s")
	assert.Contains(t, text, "Expected duration: 3600.0s")
	assert.Contains(t, text, "Deviation: 25.0%")
	assert.Contains(t, text, "[y/N]")
}
