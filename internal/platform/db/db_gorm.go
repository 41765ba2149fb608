// Package db はGORMによるデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "locker_backend/internal/feature/auth/domain/entity"
	lockerentity "locker_backend/internal/feature/lockers/domain/entity"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
)

// Config holds database connection settings.
type Config struct {
	// Driver selects the backend: "postgres" (default) or "sqlite".
	Driver   string
	User     string
	Password string
	Name     string
	Host     string
	Port     string

	// Path is the sqlite database file (sqlite driver only).
	Path string
}

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:   os.Getenv("DB_DRIVER"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Path:     os.Getenv("DB_PATH"),
	}
}

// BuildDSN assembles the DSN string for the configured driver.
func BuildDSN(cfg Config) string {
	if cfg.Driver == "sqlite" {
		path := cfg.Path
		if path == "" {
			path = "./db.sqlite"
		}
		// busy_timeout mirrors the 5s wait ceiling used in production so
		// contended writes queue instead of failing immediately.
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_fk=1", path)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener opens a gorm.DB for a DSN. Injected so connection retry is testable.
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor returns the Opener matching the configured driver.
func OpenerFor(cfg Config) Opener {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.Driver == "sqlite" {
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gsqlite.Open(dsn), gormCfg)
		}
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), gormCfg)
	}
}

// ConnectWithRetry keeps attempting to connect until timeout elapses.
// The database container often comes up after the app in local compose setups.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB connects using environment configuration and, when RUN_MIGRATIONS=true,
// migrates the schema and seeds the initial locker inventory.
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, OpenerFor(cfg))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		if err := SeedIfEmpty(db); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	}

	return db
}

// Migrate creates or updates the four tables the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authentity.User{},
		&lockerentity.LockerGroup{},
		&lockerentity.Locker{},
		&pkgentity.Package{},
	)
}

// SeedIfEmpty inserts the initial kiosk sites and their lockers when the
// locker_groups table is empty. Existing data is never touched.
func SeedIfEmpty(db *gorm.DB) error {
	var groupCount int64
	if err := db.Model(&lockerentity.LockerGroup{}).Count(&groupCount).Error; err != nil {
		return err
	}
	if groupCount > 0 {
		return nil
	}

	seed := []struct {
		group   lockerentity.LockerGroup
		lockers int
	}{
		{lockerentity.LockerGroup{Name: "Kraków - Długa 15", Location: "50.05831081733932, 19.99935917523723"}, 3},
		{lockerentity.LockerGroup{Name: "Warszawa - Marszałkowska 10", Location: "55.2231610624876026, 21.03468982125436"}, 5},
		{lockerentity.LockerGroup{Name: "Tarnów - Nowy Świat 10", Location: "50.012218531600666, 20.986982194583156"}, 2},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range seed {
			g := s.group
			if err := tx.Create(&g).Error; err != nil {
				return err
			}
			for i := 0; i < s.lockers; i++ {
				l := lockerentity.Locker{GroupID: g.ID, Status: lockerentity.StatusFree}
				if err := tx.Create(&l).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
