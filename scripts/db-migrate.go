package main

import (
	"os"

	"github.com/codehub-server/config"
	"github.com/codehub-server/database"
	"github.com/codehub-server/logutils"
)

// Copies every CodeHub table from SOURCE_DATABASE_URL to TARGET_DATABASE_URL, migrating
// the target schema first. SOURCE_DB_DRIVER and TARGET_DB_DRIVER default to postgres.
func main() {
	config.LoadEnv()
	logutils.SetLevel(config.GetEnv("LOG_LEVEL", "info"))
	logutils.Log.Info("Starting database migration...")

	sourceDBURL := os.Getenv("SOURCE_DATABASE_URL")
	targetDBURL := os.Getenv("TARGET_DATABASE_URL")
	if sourceDBURL == "" || targetDBURL == "" {
		logutils.Log.Fatal("SOURCE_DATABASE_URL and TARGET_DATABASE_URL must both be set")
	}

	// Connect to source database
	sourceDB, err := database.NewDBConnection("source", config.GetEnv("SOURCE_DB_DRIVER", "postgres"), sourceDBURL)
	if err != nil {
		logutils.Log.Fatalf("Failed to connect to source database: %v", err)
	}

	// Connect to target database
	targetDB, err := database.NewDBConnection("target", config.GetEnv("TARGET_DB_DRIVER", "postgres"), targetDBURL)
	if err != nil {
		logutils.Log.Fatalf("Failed to connect to target database: %v", err)
	}

	// Ensure target database schema is migrated
	if err := targetDB.Migrate(); err != nil {
		logutils.Log.Fatalf("Failed to migrate target database schema: %v", err)
	}

	// Migrate data from source to target
	if err := database.MigrateDataBetweenDatabases(sourceDB, targetDB); err != nil {
		logutils.Log.Fatalf("Data migration failed: %v", err)
	}

	logutils.Log.Info("Database migration completed successfully!")
}
