// @title StudyAid Backend API
// @version 1.0
// @description Backend server for the StudyAid document-based study platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"study_aid_backend/internal/app"
	"study_aid_backend/internal/config"
	"study_aid_backend/pkg/database"
	"study_aid_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	if *migrateOnly {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed, exiting")
		return
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
