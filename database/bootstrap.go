package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catering/config"
	"catering/entities"
)

func models() []any {
	return []any{
		&entities.CateringRequest{},
		&entities.Proposal{},
		&entities.Menu{},
		&entities.Task{},
		&entities.ChangeLog{},
		&entities.AdminLog{},
		&entities.ErrorLog{},
		&entities.Contract{},
		&entities.CalendarEvent{},
		&entities.GoogleToken{},
		&entities.User{},
	}
}

// Open connects to Postgres when DATABASE_URL is set, otherwise to the SQLite file.
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	var dial gorm.Dialector
	if cfg.DatabaseURL != "" {
		dial = postgres.Open(cfg.DatabaseURL)
	} else {
		dial = sqlite.Open(cfg.DBPath)
	}
	level := gormlogger.Warn
	if cfg.Development() {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dial.Name() == "sqlite" {
		// single writer; avoids SQLITE_BUSY under concurrent requests
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenMemory returns a private in-memory SQLite database, fully migrated.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(name, "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the admin account on first boot. Existing users are left alone.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	var u entities.User
	err := db.Where("email = ?", email).First(&u).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u = entities.User{Email: email, Name: "Admin", PasswordHash: string(hash)}
	if err := db.Create(&u).Error; err != nil {
		return err
	}
	log.Printf("[db] seeded admin user %s", email)
	return nil
}
