package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/epoch-io/epoch/internal/api"
	"github.com/epoch-io/epoch/internal/config"
	"github.com/epoch-io/epoch/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(configPath); err != nil {
		return err
	}
	cfg := config.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(db); err != nil {
			return err
		}
	}

	router := api.NewRouter(db, cfg)
	router.SetupRoutes()

	return router.GetEngine().Run(cfg.Addr())
}
