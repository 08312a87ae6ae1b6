package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/database"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Applies all pending migrations to the database at DATABASE_URL.`,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations instead")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if migrateDown {
		if err := database.MigrateDown(dbURL); err != nil {
			return err
		}
		fmt.Println("Rollback complete")
		return nil
	}

	if err := database.Migrate(dbURL); err != nil {
		return err
	}
	fmt.Println("Migrations complete")
	return nil
}
