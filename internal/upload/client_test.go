package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeJSON is a helper that writes a JSON response, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "secret", r.FormValue("oauth_token"))
		assert.Equal(t, "42", r.FormValue("parent_id"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, "Nova.mp4", header.Filename)
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "video bytes", string(body))

		writeJSON(t, w, map[string]any{"status": "OK"})
	}))
	defer server.Close()

	path := writeFile(t, t.TempDir(), "Nova.mp4", "video bytes")
	c := NewClient("secret", server.URL, testLogger())
	require.NoError(t, c.Upload(context.Background(), path, 42))
}

func TestClient_Upload_EmptyFile(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	path := writeFile(t, t.TempDir(), "Empty.mp4", "")
	err := NewClient("secret", server.URL, testLogger()).Upload(context.Background(), path, 0)
	assert.True(t, errors.Is(err, ErrEmptyFile), "got %v", err)
	assert.False(t, called)
}

func TestClient_Upload_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusUnauthorized)
			},
			want: "HTTP 401",
		},
		{
			name: "status not ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				writeJSON(t, w, map[string]any{"status": "ERROR", "error_type": "invalid_grant"})
			},
			want: "invalid_grant",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				_, _ = io.WriteString(w, "<html>")
			},
			want: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			path := writeFile(t, t.TempDir(), "Nova.mp4", "video bytes")
			err := NewClient("secret", server.URL, testLogger()).Upload(context.Background(), path, 0)
			assert.True(t, errors.Is(err, ErrUploadFailed), "got %v", err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClient_Upload_MissingFile(t *testing.T) {
	err := NewClient("secret", "http://127.0.0.1:1", testLogger()).Upload(context.Background(), "/nonexistent/x.mp4", 0)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}
