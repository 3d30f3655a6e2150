// Command migrate applies the schema to the configured database. The DDL
// is embedded so a deployment needs nothing besides this binary and the
// usual DB_* environment variables. Statements use IF NOT EXISTS, so
// running it repeatedly is harmless.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	_ "embed"

	"github.com/joho/godotenv"

	"github.com/iliyamo/review-catalog/internal/config"
	"github.com/iliyamo/review-catalog/internal/database"
)

//go:embed schema.sql
var schema string

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("apply schema: %v\nstatement: %s", err, stmt)
		}
	}
	log.Println("schema applied")
}
