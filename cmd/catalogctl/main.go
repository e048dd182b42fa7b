// catalogctl is the operational entry point for the catalog store:
//
//	catalogctl migrate   apply pending migrations
//	catalogctl stats     print the catalog aggregate
//	catalogctl health    ping the database
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/unipath/catalog/internal/app"
	"github.com/unipath/catalog/internal/config"
	"github.com/unipath/catalog/internal/repository"
	"github.com/unipath/catalog/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: catalogctl migrate|stats|health")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	switch os.Args[1] {
	case "migrate":
		migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
		if err != nil {
			logger.Fatal("failed to create migrator", zap.Error(err))
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}

		version, err := migrator.Version(ctx)
		if err != nil {
			logger.Fatal("failed to read migration version", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Int64("version", version))

	case "stats":
		catalog := service.NewCatalogService(
			repository.NewCountryRepository(pool),
			repository.NewUniversityRepository(pool),
			repository.NewCourseRepository(pool),
			repository.NewPathwayRepository(pool),
			logger,
		)

		stats := catalog.Statistics(ctx)
		fmt.Printf("countries:    %d\n", stats.Countries)
		fmt.Printf("universities: %d\n", stats.Universities)
		fmt.Printf("courses:      %d\n", stats.Courses)
		fmt.Printf("pathways:     %d\n", stats.Pathways)

	case "health":
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("database unreachable", zap.Error(err))
		}
		logger.Info("database reachable")

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
}
