// Package migrations embeds the SQL migration files for the Postgres
// key-value backend so they can be applied with the goose programmatic API
// at server bootstrap and in tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
