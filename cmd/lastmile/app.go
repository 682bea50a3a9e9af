package main

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/lastmile-backend-go/internal/database"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/repository"
	"github.com/jengzang/lastmile-backend-go/internal/service"
)

// application holds the wired services shared by the commands
type application struct {
	db        *sql.DB
	store     *dataset.Store
	analytics *service.AnalyticsService
	exports   *service.ExportService
	datasets  *service.DatasetService
}

// openDatabase initializes the SQLite database and applies pending migrations
func openDatabase() (*sql.DB, error) {
	if err := database.Init(database.Config{Path: cfg.Database.Path}, logger); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}
	if _, err := database.NewMigrationManager(db, logger).RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// newApplication wires the store and services. withDB enables the export and load history.
func newApplication(withDB bool) (*application, error) {
	app := &application{
		store: dataset.NewStore(cfg.Data.Path, dataset.NewOptions(cfg), logger),
	}

	var (
		exportLog service.ExportLog
		loadLog   service.LoadLog
	)
	if withDB {
		db, err := openDatabase()
		if err != nil {
			return nil, err
		}
		app.db = db
		exportLog = repository.NewExportRepository(db)
		loadLog = repository.NewLoadRepository(db)
	}

	app.analytics = service.NewAnalyticsService(app.store, cfg.Analytics)
	app.exports = service.NewExportService(app.store, exportLog, cfg.Export, logger)
	app.datasets = service.NewDatasetService(app.store, loadLog, logger)
	return app, nil
}

// Close releases the database
func (a *application) Close() {
	if a.db != nil {
		_ = database.Close()
	}
}
