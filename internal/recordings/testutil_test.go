package recordings

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/vmunix/tablodl/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mustJSON marshals v, failing the test on error.
func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func episodeDetails(show, episode, airtime string, season, number int) map[string]any {
	return map[string]any{
		"airing_details": map[string]any{"show_title": show, "datetime": airtime},
		"episode": map[string]any{
			"title":         episode,
			"season_number": season,
			"number":        number,
			"description":   "An episode of " + show,
		},
		"video_details": map[string]any{"duration": 1800},
	}
}
