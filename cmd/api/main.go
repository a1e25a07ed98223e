package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"sec_reconstructor/pkg/api/statements"
	"sec_reconstructor/pkg/core/dataset"
	"sec_reconstructor/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	dataDir := os.Getenv("SEC_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	fmt.Printf("Loading quarterly dataset from %s...\n", dataDir)
	ds, err := dataset.Open(dataDir)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	if ds.Numeric != nil {
		fmt.Printf("  - %d numeric facts loaded\n", ds.Numeric.Len())
	}

	// Database is optional for the read-only API; persistence endpoints are
	// simply unavailable without it.
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database unavailable: %v\n", err)
		} else if err := store.EnsureSchema(context.Background()); err != nil {
			fmt.Printf("[WARNING] Schema setup failed: %v\n", err)
		}
	}

	statements.InitHandler(ds.Engine())

	http.HandleFunc("/api/statements/reconstruct", statements.HandleReconstruct)
	http.HandleFunc("/api/statements/coverage", statements.HandleCoverage)
	http.HandleFunc("/api/statements/validate", statements.HandleValidate)
	http.HandleFunc("/api/statements/validate-batch", statements.HandleValidateBatch)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET  /api/statements/reconstruct")
	fmt.Println("  - GET  /api/statements/coverage")
	fmt.Println("  - GET  /api/statements/validate")
	fmt.Println("  - POST /api/statements/validate-batch")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
