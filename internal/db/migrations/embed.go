// Package migrations holds the goose SQL migrations for the Postgres backend.
package migrations

import "embed"

// FS contains every migration file, so binaries and tests do not depend on the working directory
//
//go:embed *.sql
var FS embed.FS
