package migrations

import (
	"fmt"
	"testing"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/database"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(database.Options{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestRunMigrations_SeedsAdminOnce(t *testing.T) {
	db := openDB(t)
	admin := Admin{Login: "root", Password: "s3cret!"}

	for i := 0; i < 2; i++ {
		if err := RunMigrations(db, admin, logger.Discard()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	u := users[0]
	if u.Role != string(models.RoleAdmin) || !u.IsAvailable || u.Name != "Administrator" {
		t.Errorf("seeded admin = %+v", u)
	}
	if !auth.CheckPassword(u.Password, "s3cret!") {
		t.Error("seeded password does not verify")
	}
}

func TestRunMigrations_NoCredentials(t *testing.T) {
	db := openDB(t)
	if err := RunMigrations(db, Admin{}, logger.Discard()); err != nil {
		t.Fatal(err)
	}
	var n int64
	db.Model(&models.User{}).Count(&n)
	if n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
	if !db.Migrator().HasTable(&models.CookingStatusHistory{}) {
		t.Error("ledger table missing after migration")
	}
}
