package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/epoch-io/epoch/internal/api"
	"github.com/epoch-io/epoch/internal/config"
	"github.com/epoch-io/epoch/internal/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")

	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	router := api.NewRouter(db, cfg)
	router.SetupRoutes()

	log.Printf("Starting %s server on %s", cfg.App.Name, cfg.Addr())
	log.Fatal(router.GetEngine().Run(cfg.Addr()))
}
