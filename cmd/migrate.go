package cmd

import (
	"context"
	"fmt"
	"io"

	"tavern/config"
	"tavern/database/postgres"
)

func runMigrate(_ context.Context, w io.Writer, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("migrate takes no arguments: %w", errUsage)
	}
	env, err := config.Load()
	if err != nil {
		return err
	}
	if env.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, given %s", config.DriverPostgres, env.Database.Driver)
	}

	db, err := postgres.Open(env.Database.Postgres())
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate()
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(w, "Database is up to date.")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(w, "Applied %s\n", version)
	}
	return nil
}
