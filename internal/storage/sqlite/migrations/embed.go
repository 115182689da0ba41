package migrations

import "embed"

// FS содержит встроенные SQLite-миграции хранилища рецептов.
//
//go:embed *.sql
var FS embed.FS
