package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"migration-integrity-checker/checker"
	"migration-integrity-checker/clients"
	"migration-integrity-checker/config"
	"migration-integrity-checker/logging"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger := logging.NewStructuredLogger(logging.LogLevel(cfg.Logging.Level), os.Stderr)
	client := clients.NewSupabaseClient(&cfg.Supabase)
	ic := checker.NewIntegrityChecker(client, cfg.Checker, logger)

	fmt.Println("Checking embeddings...")

	report, err := ic.Run(context.Background())
	if err != nil {
		log.Fatalf("Embedding check failed: %v", err)
	}

	report.WriteText(os.Stdout)
	fmt.Println("Check complete.")
}
