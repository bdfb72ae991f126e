package main

import (
	"context"

	"github.com/schoolhub/backend/storage/database"
)

// migrateFunc returns the migrate command for `db`.
func migrateFunc(db *database.DB) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), db.Timeout())
		defer cancel()
		return database.Migrate(ctx, db)
	}
}
