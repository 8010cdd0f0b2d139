// Package migrations embeds the schema migrations for each SQL backend.
package migrations

import "embed"

// FS holds sqlite/ and postgres/ migration sets named NNN_name.sql.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
