// Command migrate applies the embedded schema migrations.
//
//	migrate up          apply every pending migration
//	migrate down -steps 1
//	migrate version
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/JaimeStill/perito-hub/internal/config"
	"github.com/JaimeStill/perito-hub/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
)

func main() {
	steps := flag.Int("steps", 0, "Number of migrations for up/down (0 = all)")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("env file load failed: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("migration source: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.Database.URL("pgx5"))
	if err != nil {
		log.Fatalf("migrate init: %v", err)
	}
	defer m.Close()

	if err := run(m, cmd, *steps); err != nil {
		log.Fatalf("migrate %s: %v", cmd, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("schema version: none")
	case err != nil:
		log.Fatalf("read version: %v", err)
	default:
		fmt.Printf("schema version: %d (dirty: %t)\n", version, dirty)
	}
}

func run(m *migrate.Migrate, cmd string, steps int) error {
	var err error
	switch cmd {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
