package docsite

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for the page catalog
// schema so host applications can run them with their migration tooling.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
