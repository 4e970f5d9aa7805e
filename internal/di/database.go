package di

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/goliatone/go-docsite/internal/runtimeconfig"
)

const defaultSQLiteDSN = "file:docsite.db?cache=shared&_fk=1"

// openDatabase builds a bun.DB for the configured storage provider. The
// memory provider returns nil so the container falls back to in-memory
// repositories.
func openDatabase(cfg runtimeconfig.Config) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", "memory":
		return nil, nil

	case "sqlite":
		dsn := strings.TrimSpace(cfg.Storage.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		// SQLite serializes writers; a single connection avoids table locks.
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil

	case "postgres":
		dsn := strings.TrimSpace(cfg.Storage.DSN)
		if dsn == "" {
			return nil, fmt.Errorf("di: postgres storage requires a DSN")
		}
		sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqlDB, pgdialect.New()), nil

	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
}
