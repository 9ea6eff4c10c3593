// Package main is the entry point for the bookquest API server.
// It wires together configuration, the database connection, the external
// collaborators, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/NigelFerrefe/bookquest-bk/internal/config"
	"github.com/NigelFerrefe/bookquest-bk/internal/covers"
	"github.com/NigelFerrefe/bookquest-bk/internal/data"
	"github.com/NigelFerrefe/bookquest-bk/internal/googlebooks"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, shown in logs.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup. Defaults
// come from the environment (see internal/config); each one can be
// overridden with a command-line flag.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on
	environment string // Runtime environment: development, staging, or production
	db          struct {
		dsn string // PostgreSQL Data Source Name (connection string)
	}
	googleBooks struct {
		baseURL string // Google Books volumes API root
		apiKey  string // Optional API key
	}
	covers struct {
		uploadURL string // Image store endpoint; empty disables re-hosting
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig       // Server configuration loaded from env + flags
	logger *slog.Logger       // Structured logger that writes to stdout
	db     *sql.DB            // Connection pool, kept for health checks
	models data.Models        // Database model layer for all tables
	search *googlebooks.Client // External book-metadata provider
	covers covers.Uploader    // Cover image re-hosting collaborator
}

func main() {
	defaults := config.Load()

	var settings serverConfig
	flag.IntVar(&settings.port, "port", defaults.Port, "Server port")
	flag.StringVar(&settings.environment, "env", defaults.Environment, "Environment(development|staging|production)")
	flag.StringVar(&settings.db.dsn, "db-dsn", defaults.DSN, "PostgreSQL DSN")
	flag.StringVar(&settings.googleBooks.baseURL, "google-books-url", defaults.GoogleBooks.BaseURL, "Google Books API base URL")
	flag.StringVar(&settings.googleBooks.apiKey, "google-books-key", defaults.GoogleBooks.APIKey, "Google Books API key")
	flag.StringVar(&settings.covers.uploadURL, "cover-upload-url", defaults.CoverUploadURL, "Image store upload endpoint")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connection pool established")

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		db:     db,
		models: data.NewModels(db),
		search: googlebooks.New(settings.googleBooks.baseURL, settings.googleBooks.apiKey, logger),
		covers: covers.New(settings.covers.uploadURL, logger),
	}

	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openDB opens a PostgreSQL connection pool using the DSN stored in settings,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open("postgres", settings.db.dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// PingContext performs a real round-trip to verify the database is reachable.
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
