package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/delordemm1/go-accounts-api/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"    // PostgreSQL driver
	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"github.com/pressly/goose/v3"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("❌ DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("❌ Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("❌ Failed to ping database: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetDialect("postgres")

	// Example: 'go run ./cmd/migrate up' -> os.Args will be ["./cmd/migrate/main.go", "up"]
	if len(os.Args) < 2 {
		log.Fatalf("❌ Missing goose command. Usage: go run ./cmd/migrate [up|down|status|...]")
	}
	command := os.Args[1]
	args := os.Args[2:]

	log.Printf("Running goose command: %s", command)
	if err := goose.RunContext(context.Background(), command, db, ".", args...); err != nil {
		log.Fatalf("❌ Goose command '%s' failed: %v", command, err)
	}
}
