// Package migrations embeds the world state schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
