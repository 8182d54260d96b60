// Package postgres embeds the goose migrations for the manager node's
// PostgreSQL database.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
