// file: db/migrate.go

package db

import (
	"embed"
	"errors"
	"finease-api/logger"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed migrations/*.json
var migrationFiles embed.FS

// Migrate applies the embedded index migrations to dbName.
func Migrate(client *mongo.Client, dbName string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("cannot open migration source: %w", err)
	}
	defer src.Close()

	driver, err := mongodb.WithInstance(client, &mongodb.Config{DatabaseName: dbName})
	if err != nil {
		return fmt.Errorf("cannot create migrate driver: %w", err)
	}

	// The driver is not closed: closing it would disconnect the shared client.
	mig, err := migrate.NewWithInstance("iofs", src, "mongodb", driver)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	version, dirty, _ := mig.Version()
	logger.Log.WithField("version", version).WithField("dirty", dirty).Info("Database migrations applied")
	return nil
}
