package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/domain/shoppinglist"
)

func main() {
	olderThan := flag.Duration("older-than", 30*24*time.Hour, "purge checked items created before now minus this duration")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-*olderThan)
	n, err := shoppinglist.NewRepository(db).PurgeChecked(ctx, cutoff)
	if err != nil {
		log.Fatalf("purge checked shopping items failed: %v", err)
	}
	log.Printf("shopping cleanup completed: deleted=%d cutoff=%s", n, cutoff.Format(time.RFC3339))

	sessions, err := database.NewSessionStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("purge expired sessions failed: %v", err)
	}
	log.Printf("session cleanup completed: deleted=%d", sessions)
}
