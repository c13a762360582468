package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/yourusername/identity-api/internal/config"
)

// Deletes expired login code rows. The API never reaps them itself; run this
// from cron or a scheduled job.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	result, err := db.Exec("DELETE FROM login_codes WHERE expires_at <= $1", time.Now())
	if err != nil {
		log.Fatalf("Failed to delete expired login codes: %v", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		log.Fatalf("Failed to read rows affected: %v", err)
	}

	fmt.Printf("Deleted %d expired login codes\n", deleted)
}
