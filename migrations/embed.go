// Package migrations holds the goose migrations for the probe journal.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
