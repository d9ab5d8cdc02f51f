// Package migrations embeds the goose migrations for the Postgres mirror.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
