package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	ledger := NewLedger(setupTestDB(t))

	has, err := ledger.Has("Nova.mp4")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, ledger.Add("Nova.mp4", 100))
	require.NoError(t, ledger.Add("Heat_(1995).mp4", 200))
	require.NoError(t, ledger.Add("Nova.mp4", 150))

	has, err = ledger.Has("Nova.mp4")
	require.NoError(t, err)
	assert.True(t, has)

	entries, err := ledger.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Heat_(1995).mp4", entries[0].Path)
	assert.Equal(t, int64(150), entries[1].Size)
	assert.False(t, entries[1].UploadedAt.IsZero())
}
