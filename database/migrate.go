package database

import (
	"errors"
	"fmt"

	"github.com/codehub-server/logutils"
	"github.com/codehub-server/models"
	"gorm.io/gorm"
)

// DBConnection represents a database connection
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Driver string
}

// NewDBConnection creates a new database connection
func NewDBConnection(name, driver, dbURL string) (*DBConnection, error) {
	if dbURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	db, err := Open(driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	logutils.Log.WithField("database", name).Info("connected")

	return &DBConnection{
		DB:     db,
		Name:   name,
		Driver: driverName(driver),
	}, nil
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	logutils.Log.WithField("database", c.Name).Info("migrating schema")
	if err := c.DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	return nil
}

// copyTable moves every row of one table from source to target in batches.
func copyTable[T any](source, target *gorm.DB, table string) error {
	var rows []T
	var copied int
	err := source.Unscoped().FindInBatches(&rows, 200, func(tx *gorm.DB, batch int) error {
		if err := target.Unscoped().Create(&rows).Error; err != nil {
			return err
		}
		copied += len(rows)
		return nil
	}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", table, err)
	}
	logutils.Log.WithFields(logutils.Fields{"table": table, "rows": copied}).Info("table migrated")
	return nil
}

// MigrateDataBetweenDatabases copies all data from source to target. Tables are copied
// parents first so foreign keys hold on the target at every step.
func MigrateDataBetweenDatabases(source, target *DBConnection) error {
	logutils.Log.WithFields(logutils.Fields{"source": source.Name, "target": target.Name}).Info("starting data migration")

	return target.DB.Transaction(func(tx *gorm.DB) error {
		// Projects reference commits through last_commit_id; that column has no
		// foreign key, so projects can go before commits.
		steps := []func() error{
			func() error { return copyTable[models.User](source.DB, tx, "users") },
			func() error { return copyTable[models.Project](source.DB, tx, "projects") },
			func() error { return copyTable[models.ProjectFile](source.DB, tx, "project_files") },
			func() error { return copyTable[models.Commit](source.DB, tx, "commits") },
			func() error { return copyTable[models.CommitFile](source.DB, tx, "commit_files") },
			func() error { return copyTable[models.Deployment](source.DB, tx, "deployments") },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}
