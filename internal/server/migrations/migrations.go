// Package migrations embeds the goose SQL migrations. The postgres and
// sqlite directories carry the same schema expressed in each engine's
// dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
