// Package sqlite embeds the goose migrations for the field node's local
// SQLite database. The schema mirrors the manager's PostgreSQL schema so
// dump records round-trip between backends unchanged.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
