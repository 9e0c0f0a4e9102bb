// Command main runs the database seeder.
package main

import (
	"flag"
	"log"

	"docmanager/internal/config"
	"docmanager/internal/database"
	"docmanager/internal/seed"
)

func main() {
	numClients := flag.Int("clients", 20, "Number of client accounts to create")
	numDocuments := flag.Int("documents", 100, "Number of documents to create")
	numRequests := flag.Int("requests", 40, "Number of document requests to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seed.NewSeeder(db).Run(seed.Options{
		NumClients:   *numClients,
		NumDocuments: *numDocuments,
		NumRequests:  *numRequests,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
