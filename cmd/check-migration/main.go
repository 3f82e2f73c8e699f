package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"migration-integrity-checker/checker"
	"migration-integrity-checker/clients"
	"migration-integrity-checker/config"
	"migration-integrity-checker/database"
	"migration-integrity-checker/logging"
)

func main() {
	var (
		url          = flag.String("url", "", "Supabase project URL (required)")
		key          = flag.String("key", "", "Supabase anon key (required)")
		manifestPath = flag.String("manifest", "", "Path to a YAML schema manifest (defaults to the built-in legal-document schema)")
		dsn          = flag.String("dsn", "", "PostgreSQL DSN for the deep structural check (optional)")
	)
	flag.Parse()

	if *url == "" || *key == "" {
		fmt.Fprintln(os.Stderr, "Both -url and -key are required")
		flag.Usage()
		os.Exit(2)
	}

	manifest := checker.DefaultManifest()
	if *manifestPath != "" {
		loaded, err := checker.LoadManifest(*manifestPath)
		if err != nil {
			log.Fatalf("Failed to load manifest: %v", err)
		}
		manifest = loaded
	}

	logger := logging.NewDefaultLogger()
	client := clients.NewSupabaseClient(&config.SupabaseConfig{URL: *url, APIKey: *key})
	sc := checker.NewStructuralChecker(client, manifest, logger)

	if *dsn != "" {
		inspector, err := database.Open(*dsn, logger)
		if err != nil {
			log.Fatalf("Failed to connect for deep check: %v", err)
		}
		defer inspector.Close()
		sc = sc.WithDeepInspector(inspector)
	}

	report := sc.Run(context.Background())
	report.WriteText(os.Stdout)
}
