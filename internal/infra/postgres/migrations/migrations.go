// Package migrations holds the Postgres schema. Each migration lives in its
// own file because bun derives the migration name from the registering file.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
