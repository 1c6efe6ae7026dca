package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_tasks.postgres.up.sql
var createTasksPostgres string

//go:embed migrations/01_create_tasks.sqlite3.up.sql
var createTasksSQLite string

// Migrate применяет миграции для выбранного драйвера.
func (db *DB) Migrate() error {
	db.log.Debug("running tasks migrations", "driver", db.conn.DriverName())

	schema := createTasksPostgres
	if db.conn.DriverName() == "sqlite3" {
		schema = createTasksSQLite
	}

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("apply tasks migration: %w", err)
	}

	db.log.Debug("tasks migrations finished")
	return nil
}
