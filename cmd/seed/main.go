package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iman-school/caseload/config"
	"github.com/iman-school/caseload/database"
)

func main() {
	force := flag.Bool("force", false, "overwrite the slot even if it already holds students")
	flag.Parse()

	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file could not be loaded, using system environment variables")
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	store, err := database.Open(env)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Caseload - Demo Roster Seeding")
	fmt.Println(separator)
	fmt.Println()

	seeder := database.NewSeeder(store, env.STORAGE_SLOT)
	if err := seeder.SeedAll(context.Background(), time.Now(), *force); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
}
