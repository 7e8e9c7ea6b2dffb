package main

import (
	"log"
	"net/http"
	"time"

	"lostark-market/internal/api"
	"lostark-market/internal/catalog"
	"lostark-market/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.StaticFile("/", "./web/index.html")
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	hub := api.NewHub()
	r.GET("/ws", hub.HandleWS)

	apiGroup := r.Group("/api/v1")
	handler := api.SetupRoutes(apiGroup, cat, cfg.DataDir, cfg.EventsPath, hub)
	go handler.WatchDataDir(30 * time.Second)

	log.Printf("Dashboard server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
