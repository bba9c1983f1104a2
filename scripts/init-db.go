package main

import (
	"fmt"
	"log"

	"restaurant_service/internal/config"
	"restaurant_service/internal/database"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/migrations"
)

// Drops every table the service owns and recreates the schema from scratch.
func main() {
	fmt.Println("Initializing database...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.Initialize(database.Options{
		Driver:   cfg.DBDriver,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Dropping existing tables...")
	if err := db.Migrator().DropTable(database.AllModels()...); err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	fmt.Println("Creating tables...")
	err = migrations.RunMigrations(db, migrations.Admin{
		Name:     cfg.AdminName,
		Login:    cfg.AdminLogin,
		Password: cfg.AdminPassword,
	}, logger.New("init-db", cfg.LogLevel))
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database initialization completed successfully!")
}
