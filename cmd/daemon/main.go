package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lostark-market/internal/catalog"
	"lostark-market/internal/collector"
	"lostark-market/internal/config"
	"lostark-market/internal/database"
	"lostark-market/internal/lostark"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Long-running collector: schedules collection runs in-process instead of
// relying on an external scheduler. Runs never overlap; a run that is still
// going when the next tick fires is skipped.
func main() {
	runOnStart := flag.Bool("run-now", false, "run one collection immediately on startup")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.RequireCredentials(); err != nil {
		log.Fatal("Configuration error:", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}

	db, err := database.Initialize(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	client := lostark.NewClient(cfg.APIToken)
	col := collector.New(client, db, cat, cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec := os.Getenv("COLLECT_CRON")
	if spec == "" {
		spec = "0 * * * *" // hourly, on the hour
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		if err := col.Run(ctx); err != nil {
			log.Printf("[daemon] collection run failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Failed to register collection schedule:", err)
	}

	if *runOnStart {
		if err := col.Run(ctx); err != nil {
			log.Printf("[daemon] initial run failed: %v", err)
		}
	}

	c.Start()
	log.Printf("[daemon] started, schedule %q", spec)

	<-ctx.Done()
	c.Stop()
	log.Println("[daemon] stopped")
}
