package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"referenciales-api/internal/config"
	"referenciales-api/internal/db"
	"referenciales-api/internal/export"
	"referenciales-api/internal/ingestion"
	"referenciales-api/internal/middleware"
	"referenciales-api/internal/repository"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional .env for local development
	_ = godotenv.Load()

	dbConfig, err := config.LoadDBConfig("./")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	serverConfig, err := config.LoadServerConfig("./")
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(dbConfig.URL(), serverConfig.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire the import pipeline
	conservadorRepo := repository.NewConservadorRepository()
	referencialRepo := repository.NewReferencialRepository()
	importLogRepo := repository.NewImportLogRepository(conn.Pool)

	committer := ingestion.NewCommitter(conn.Pool, conservadorRepo, referencialRepo)
	importService := ingestion.NewService(committer, importLogRepo)
	exportService := export.NewService(conn.Pool, referencialRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   serverConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/referenciales/upload", ingestion.NewHTTPHandler(importService))
	mux.Handle("/api/referenciales/export", export.NewHTTPHandler(exportService))

	handler := middleware.LoggingMiddleware(corsHandler.Handler(mux))

	// Create HTTP server
	server := &http.Server{
		Addr:         serverConfig.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting import server on %s", serverConfig.Addr)
		log.Printf("Upload endpoint available at http://localhost%s/api/referenciales/upload", serverConfig.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
