package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Tables lists every table the schema creates, parents first.
var Tables = []string{
	"employees",
	"loans",
	"traffic_challans",
	"timesheets",
	"payroll_summaries",
	"payroll_details",
	"users",
}

// Migrate applies the embedded schema files in name order. Every statement
// is idempotent, so Migrate is safe to run on an existing database.
func Migrate(ctx context.Context, db *database.DB) error {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	return WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, name := range names {
			script, err := migrationFS.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read migration %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx, string(script)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
		}
		return nil
	})
}
