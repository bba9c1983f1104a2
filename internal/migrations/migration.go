package migrations

import (
	"errors"
	"fmt"
	"log/slog"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/database"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"

	"gorm.io/gorm"
)

// Admin describes the account seeded on first start. An empty login or
// password skips seeding.
type Admin struct {
	Name     string
	Login    string
	Password string
}

// RunMigrations brings the schema up to date and creates default data.
func RunMigrations(db *gorm.DB, admin Admin, log *logger.Logger) error {
	log.Info("migrate", "", "Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createDefaultData(db, admin, log); err != nil {
		return err
	}

	log.Info("migrate", "", "Database migrations completed successfully")
	return nil
}

// createDefaultData seeds the admin account unless one with that login
// already exists.
func createDefaultData(db *gorm.DB, admin Admin, log *logger.Logger) error {
	if admin.Login == "" || admin.Password == "" {
		log.Warn("seed_admin", "", "ADMIN_LOGIN or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	users := repository.NewUserRepository(db)
	existing, err := users.GetByLogin(admin.Login)
	if err == nil && existing != nil {
		log.Info("seed_admin", "", "Admin user already exists", slog.String("login", admin.Login))
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	user := &models.User{
		Name:        name,
		Login:       admin.Login,
		Password:    hash,
		Role:        string(models.RoleAdmin),
		IsAvailable: true,
	}
	if err := users.Create(user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info("seed_admin", "", "Admin user created", slog.String("login", admin.Login), slog.Uint64("user_id", uint64(user.ID)))
	return nil
}
