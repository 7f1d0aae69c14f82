package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	var buf bytes.Buffer
	require.NoError(t, initConfig(&buf, path, false))
	assert.Contains(t, buf.String(), path)
	assert.FileExists(t, path)

	err := initConfig(&buf, path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, initConfig(&buf, path, true))
}

func TestTestConfig_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, initConfig(&bytes.Buffer{}, path, false))

	var buf bytes.Buffer
	require.NoError(t, testConfig(&buf, path))
	assert.Contains(t, buf.String(), "Configuration Summary:")
	assert.Contains(t, buf.String(), "Configuration valid!")
}

func TestTestConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "loud"

[putio]
token = "${TABLODL_TEST_UNSET_TOKEN:?put.io token required}"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var buf bytes.Buffer
	err := testConfig(&buf, path)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Missing environment variables:")
	assert.Contains(t, buf.String(), "TABLODL_TEST_UNSET_TOKEN")
}

func TestTestConfig_ValidationErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0644))

	var buf bytes.Buffer
	err := testConfig(&buf, path)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Validation errors:")
	assert.Contains(t, buf.String(), "log.level")
}
