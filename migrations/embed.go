// Package migrations holds the trip planner schema (users, sessions,
// trips, events) as goose SQL files.
package migrations

import "embed"

// FS is read by goose.NewProvider from cmd/api when MIGRATE_ON_START is
// set and from testutil before repository tests.
//
//go:embed *.sql
var FS embed.FS
