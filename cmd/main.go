package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/mkrassel/territory-app/internal/config"
	"github.com/mkrassel/territory-app/internal/dataset"
	"github.com/mkrassel/territory-app/internal/observability"
	"github.com/mkrassel/territory-app/internal/operator"
	"github.com/mkrassel/territory-app/internal/pool"
	"github.com/mkrassel/territory-app/internal/rebuild"
	"github.com/mkrassel/territory-app/internal/server"
	"github.com/mkrassel/territory-app/internal/zone"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalln(err)
	}

	db, err := sql.Open("postgres", cfg.Database.DatabaseURL())
	if err != nil {
		logger.Fatalln(err)
	}
	defer db.Close()

	collector, err := observability.NewRebuildCollector(nil)
	if err != nil {
		logger.Fatalln(err)
	}

	strategy, err := rebuild.ParseStrategy(cfg.Rebuild.RepairStrategy)
	if err != nil {
		logger.Fatalln(err)
	}

	assembler := rebuild.NewAssembler(strategy, logger, collector)

	p := pool.New(cfg.Rebuild.Workers, cfg.Rebuild.QueueSize)
	p.Start()
	defer p.Stop()

	srv := server.Server{
		Addr:      cfg.Server.Addr(),
		Router:    chi.NewRouter(),
		Logger:    logger,
		Zones:     zone.New(assembler, db, p, logger, collector),
		Datasets:  dataset.New(db, logger, collector),
		Operators: operator.New([]byte(cfg.Auth.JWTSecret), db),
		Metrics:   collector.Handler(),
	}
	if err := srv.Start(); err != nil {
		logger.Println(err)
	}
}
