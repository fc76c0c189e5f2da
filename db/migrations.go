// Package db embeds the PostgreSQL schema migrations applied by cmd/migrate.
// Files are named YYYY-MM-DD-NNN-description.sql and run in lexical order.
package db

import "embed"

//go:embed *.sql
var Migrations embed.FS
