// Command seed populates the database with sample data for local work.
// Seeders run inside one transaction so a failure leaves nothing behind.
package main

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"slices"
	"strings"
)

//go:embed seeds/*.json
var seedFiles embed.FS

// Seeder populates one domain's tables.
type Seeder interface {
	Name() string
	Description() string
	// Seed must be idempotent: running it twice leaves the same rows.
	Seed(ctx context.Context, tx *sql.Tx) error
}

var seeders = map[string]Seeder{}

func registerSeeder(s Seeder) {
	seeders[s.Name()] = s
}

func getSeeder(name string) (Seeder, bool) {
	s, ok := seeders[name]
	return s, ok
}

// seedOrder lists seeders whose rows others reference. Seeders not named
// here run after these, sorted by name.
var seedOrder = []string{"processes", "laudos"}

func seedRank(name string) int {
	if i := slices.Index(seedOrder, name); i >= 0 {
		return i
	}
	return len(seedOrder)
}

// listSeeders returns the registered seeders in dependency order.
func listSeeders() []Seeder {
	result := make([]Seeder, 0, len(seeders))
	for _, s := range seeders {
		result = append(result, s)
	}
	slices.SortFunc(result, func(a, b Seeder) int {
		if c := cmp.Compare(seedRank(a.Name()), seedRank(b.Name())); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// runSeeders executes the given seeders within a single transaction.
func runSeeders(ctx context.Context, db *sql.DB, list []Seeder) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, s := range list {
		if err := s.Seed(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
