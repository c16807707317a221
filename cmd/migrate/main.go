// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"skillswap/internal/config"
	"skillswap/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("automigrations applied")
	case "status":
		missing := 0
		for _, m := range database.PersistentModels() {
			if !db.Migrator().HasTable(m) {
				log.Printf("missing table for %T", m)
				missing++
			}
		}
		log.Printf("env=%s driver=%s models=%d missing=%d", cfg.Env, db.Dialector.Name(), len(database.PersistentModels()), missing)
	default:
		return usage()
	}
	return nil
}
