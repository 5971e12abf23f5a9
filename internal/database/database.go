package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Options tweak the gorm session opened by Connect.
type Options struct {
	Silent bool
}

func Connect(dsn string, opts ...Options) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	for _, o := range opts {
		if o.Silent {
			cfg.Logger = logger.Default.LogMode(logger.Silent)
		}
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Migrate runs AutoMigrate for each model group in order.
func Migrate(db *gorm.DB, groups ...[]any) error {
	for _, models := range groups {
		if len(models) == 0 {
			continue
		}
		if err := db.AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	return nil
}
