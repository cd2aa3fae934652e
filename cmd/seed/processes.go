package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/perito-hub/internal/processes"
)

func init() {
	registerSeeder(&ProcessSeeder{})
}

type ProcessSeedData struct {
	Processes []processes.CreateCommand `json:"processes"`
}

// ProcessSeeder upserts judicial processes keyed by their number.
type ProcessSeeder struct {
	file string
}

func (s *ProcessSeeder) Name() string {
	return "processes"
}

func (s *ProcessSeeder) Description() string {
	return "Seeds sample judicial processes in several statuses"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *ProcessSeeder) SetFile(path string) {
	s.file = path
}

func (s *ProcessSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, cmd := range data.Processes {
		cmd = cmd.Normalize()
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("process %s: %w", cmd.Number, err)
		}
		if err := s.save(ctx, tx, cmd); err != nil {
			return fmt.Errorf("save process %s: %w", cmd.Number, err)
		}
	}

	fmt.Printf("seeded %d processes\n", len(data.Processes))
	return nil
}

func (s *ProcessSeeder) loadSeedData() (*ProcessSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/processes.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data ProcessSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func (s *ProcessSeeder) save(ctx context.Context, tx *sql.Tx, cmd processes.CreateCommand) error {
	const query = `
		INSERT INTO processes (number, court, kind, party, status, designated_at, deadline, fee_cents, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (number) DO UPDATE SET
			court = EXCLUDED.court,
			kind = EXCLUDED.kind,
			party = EXCLUDED.party,
			status = EXCLUDED.status,
			designated_at = EXCLUDED.designated_at,
			deadline = EXCLUDED.deadline,
			fee_cents = EXCLUDED.fee_cents,
			description = EXCLUDED.description,
			updated_at = NOW()`

	_, err := tx.ExecContext(ctx, query,
		cmd.Number,
		cmd.Court,
		cmd.Kind,
		cmd.Party,
		string(cmd.Status),
		cmd.DesignatedAt.Time,
		cmd.Deadline.Time,
		int64(cmd.Fee),
		cmd.Description,
	)
	return err
}
