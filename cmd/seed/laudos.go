package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/JaimeStill/perito-hub/internal/laudos"
)

func init() {
	registerSeeder(&LaudoSeeder{})
}

// laudoNamespace derives stable laudo ids so reseeding updates in place.
var laudoNamespace = uuid.MustParse("6f1c2b9e-4a37-5d0e-9b8a-3c1f7e2d4a60")

type LaudoSeedData struct {
	Laudos []laudos.CreateCommand `json:"laudos"`
}

// LaudoSeeder upserts expert reports attached to the seeded processes.
type LaudoSeeder struct {
	file string
}

func (s *LaudoSeeder) Name() string {
	return "laudos"
}

func (s *LaudoSeeder) Description() string {
	return "Seeds sample laudos for the seeded processes"
}

func (s *LaudoSeeder) SetFile(path string) {
	s.file = path
}

func (s *LaudoSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, cmd := range data.Laudos {
		cmd = cmd.Normalize()
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("laudo %q: %w", cmd.Title, err)
		}
		if err := s.save(ctx, tx, cmd); err != nil {
			return fmt.Errorf("save laudo %q: %w", cmd.Title, err)
		}
	}

	fmt.Printf("seeded %d laudos\n", len(data.Laudos))
	return nil
}

func (s *LaudoSeeder) loadSeedData() (*LaudoSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/laudos.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data LaudoSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func laudoSeedID(cmd laudos.CreateCommand) uuid.UUID {
	return uuid.NewSHA1(laudoNamespace, []byte(cmd.ProcessNumber+"\x00"+cmd.Title))
}

func (s *LaudoSeeder) save(ctx context.Context, tx *sql.Tx, cmd laudos.CreateCommand) error {
	const query = `
		INSERT INTO laudos (id, process_number, title, kind, status, introduction, methodology, analysis, conclusion, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			CASE WHEN $5 = 'entregue' THEN CURRENT_DATE END)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			status = EXCLUDED.status,
			introduction = EXCLUDED.introduction,
			methodology = EXCLUDED.methodology,
			analysis = EXCLUDED.analysis,
			conclusion = EXCLUDED.conclusion,
			delivered_at = COALESCE(laudos.delivered_at, EXCLUDED.delivered_at),
			updated_at = NOW()`

	_, err := tx.ExecContext(ctx, query,
		laudoSeedID(cmd),
		cmd.ProcessNumber,
		cmd.Title,
		cmd.Kind,
		string(cmd.Status),
		cmd.Introduction,
		cmd.Methodology,
		cmd.Analysis,
		cmd.Conclusion,
	)
	return err
}
