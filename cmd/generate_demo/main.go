// Command generate_demo creates a demo database with a sample catalog and a demo admin.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/admins"
	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/demo"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(*dbPath + suffix); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing demo database: %v", err)
		}
	}

	db, err := database.NewDatabase(*dbPath, false)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	catalogService := catalog.NewService(books.NewRepository(db.DB))
	added, err := demo.SeedCatalog(catalogService)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("Added %d books", added)

	authService := auth.NewService(admins.NewRepository(db.DB), config.NewConfig().Auth)
	if _, err := demo.SeedAdmin(authService); err != nil {
		log.Fatalf("Failed to create demo admin: %v", err)
	}
	log.Printf("Demo admin: %s / %s", demo.Username, demo.Password)

	log.Println("Demo database generated successfully!")
}
