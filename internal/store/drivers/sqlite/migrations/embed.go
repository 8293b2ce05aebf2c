// Package migrations embeds the SQL migration files so the binary can apply
// them without shipping a migrations directory alongside it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
