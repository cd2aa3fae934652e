package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/JaimeStill/perito-hub/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn  = flag.String("dsn", "", "Database connection string (default: from config)")
		all  = flag.Bool("all", false, "Run all seeders")
		name = flag.String("seeder", "", "Run a single seeder by name")
		file = flag.String("file", "", "External seed file for -seeder (overrides embedded)")
		list = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	var selected []Seeder
	switch {
	case *all:
		selected = listSeeders()
	case *name != "":
		s, ok := getSeeder(*name)
		if !ok {
			log.Fatalf("seeder not found: %s", *name)
		}
		if fs, ok := s.(interface{ SetFile(string) }); ok && *file != "" {
			fs.SetFile(*file)
		}
		selected = []Seeder{s}
	default:
		fmt.Println("usage: seed [-dsn <connection-string>] [-all | -seeder <name> [-file <path>]] [-list]")
		flag.PrintDefaults()
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("env file load failed: %v", err)
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("database connection string required: use -dsn, %s or config.toml (%v)", EnvDatabaseDSN, err)
		}
		*dsn = cfg.Database.Dsn()
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := runSeeders(ctx, db, selected); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Println("seeding completed successfully")
}
