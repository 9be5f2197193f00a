package di

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-nodevis/internal/overrides"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/runtimeconfig"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenDB opens a Bun database for a storage config. sqlite3 and postgres are
// supported.
func OpenDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := runtimeconfig.NormalizeDriver(cfg.Driver)
	sqldb, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("nodevis: open %s: %w", driver, err)
	}
	switch driver {
	case "postgres":
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "sqlite3":
		db := bun.NewDB(sqldb, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	if !c.Config.Overrides.Persist && !c.Config.Preferences.Persist {
		return nil
	}
	if c.bunDB == nil {
		db, err := OpenDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Overrides.Persist {
		if err := overrides.CreateSchema(ctx, c.bunDB); err != nil {
			return fmt.Errorf("nodevis: override schema: %w", err)
		}
	}
	if c.Config.Preferences.Persist {
		if err := preferences.CreateSchema(ctx, c.bunDB); err != nil {
			return fmt.Errorf("nodevis: preference schema: %w", err)
		}
	}
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}
