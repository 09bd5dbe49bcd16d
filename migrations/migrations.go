// Package migrations embeds the SQL schema applied by init-database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
