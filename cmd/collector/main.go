package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"lostark-market/internal/catalog"
	"lostark-market/internal/collector"
	"lostark-market/internal/config"
	"lostark-market/internal/database"
	"lostark-market/internal/lostark"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// One-shot collection run, meant to be invoked by an external scheduler
// (cron, CI workflow). Use cmd/daemon for in-process scheduling.
func main() {
	skipDB := flag.Bool("no-db", false, "skip the relational sink, write CSVs only")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	var err error
	if *skipDB {
		err = cfg.RequireAPIToken()
	} else {
		err = cfg.RequireCredentials()
	}
	if err != nil {
		log.Fatal("Configuration error:", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}

	var db *gorm.DB
	if !*skipDB {
		db, err = database.Initialize(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
	}

	client := lostark.NewClient(cfg.APIToken)
	col := collector.New(client, db, cat, cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := col.Run(ctx); err != nil {
		log.Fatal("Collection run failed:", err)
	}
}
