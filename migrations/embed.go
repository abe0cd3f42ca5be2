// Package migrations embeds the goose SQL migrations so the app can bring
// the schema up to date at startup without the goose CLI.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
