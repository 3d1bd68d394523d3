// Package migrations embeds the table definitions so the store can create
// its schema from the binary without a filesystem path at runtime.
package migrations

import "embed"

// FS holds one CREATE TABLE statement per *.sql file, embedded at compile time.
// Files are applied in lexical order and each one independently, so a failure
// in one table does not stop the others from being created.
//
//go:embed *.sql
var FS embed.FS
