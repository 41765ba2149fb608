// Command seed migrates the schema and inserts the initial kiosk inventory.
// Useful for local development when the server runs with RUN_MIGRATIONS unset.
package main

import (
	"log"

	"locker_backend/internal/platform/db"
)

func main() {
	gormDB := db.OpenDB()

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to migrate:", err)
	}
	if err := db.SeedIfEmpty(gormDB); err != nil {
		log.Fatal("failed to seed:", err)
	}

	log.Println("schema migrated and inventory seeded")
}
