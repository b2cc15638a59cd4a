// cmd/ingestd/main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/andresuchdata/bufferboard/internal/config"
	"github.com/andresuchdata/bufferboard/internal/ingest"
	"github.com/andresuchdata/bufferboard/internal/repository/postgres"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Create router
	r := mux.NewRouter()

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	ingestRepo := postgres.NewIngestRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)

	// Register routes
	handler := ingest.NewHandler(ingestRepo, stockRepo, poRepo)
	handler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.IngestPort)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
