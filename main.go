package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"

	"gocausal/adapters/excel"
	"gocausal/adapters/postgres"
	"gocausal/adapters/stats/battery"
	"gocausal/api"
	"gocausal/app"
	"gocausal/domain/causal"
	"gocausal/internal/config"
	"gocausal/internal/errors"
	"gocausal/internal/testkit"
	"gocausal/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Make sure the observations table exists
	if err := postgres.EnsureSchema(context.Background(), db, appConfig.Database.Table); err != nil {
		return nil, errors.Wrap(err, "database schema setup failed")
	}

	return db, nil
}

// selectSource resolves the table source: configured file first, then
// database, then the synthetic fixture.
func selectSource(appConfig *config.Config) (ports.TableSource, func(), error) {
	if appConfig.Data.File != "" {
		log.Printf("Using file data source: %s", appConfig.Data.File)
		return excel.NewReader(appConfig.Data.File), func() {}, nil
	}

	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using database data source: table %s", appConfig.Database.Table)
		return postgres.NewObservationSource(db, appConfig.Database.Table), func() { _ = db.Close() }, nil
	}

	log.Printf("No data source configured, using synthetic market fixture")
	return testkit.NewSyntheticSource(), func() {}, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure data source
	source, cleanup, err := selectSource(appConfig)
	if err != nil {
		log.Fatalf("Failed to configure data source: %v", err)
	}
	defer cleanup()

	table, err := source.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load %s: %v", source.Describe(), err)
	}
	log.Printf("Loaded %s: %d parameters, %d rows",
		source.Describe(), table.ColumnCount(), table.Rows())

	// Wire the validation engine
	bat := battery.NewWithMaxLag(appConfig.Engine.MaxLag)
	registry := causal.NewLinkRegistry()
	thresholds := causal.Thresholds{
		SignificanceLevel: appConfig.Engine.SignificanceLevel,
		CorrelationFloor:  appConfig.Engine.CorrelationFloor,
		InterventionFloor: appConfig.Engine.InterventionFloor,
		StabilityFloor:    appConfig.Engine.StabilityFloor,
	}
	service := app.NewValidationService(bat, registry, thresholds, appConfig.Engine.BatchWorkers)

	server := api.NewServer(service, table, source.Describe())

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	// Start the server
	log.Printf("🚀 Starting causal validation engine on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
