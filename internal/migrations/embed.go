// Package migrations holds the tablodl SQLite schema: the recordings cache,
// the put.io upload ledger and the download history.
package migrations

import _ "embed"

// InitialSQL creates every table idempotently; it runs on each database open.
//
//go:embed sql/001_initial.sql
var InitialSQL string
