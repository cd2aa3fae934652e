package laudos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
	"github.com/google/uuid"
)

const returning = `RETURNING id, process_number, title, kind, status, introduction, methodology,
	analysis, conclusion, delivered_at, created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	clock      func() time.Time
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "laudos"),
		pagination: pagination,
		clock:      time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Laudo], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "ProcessNumber")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count laudos: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLaudo)
	if err != nil {
		return nil, fmt.Errorf("query laudos: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Laudo, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLaudo)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalidLaudo)
	}
	return &l, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Laudo, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO laudos (process_number, title, kind, status, introduction, methodology, analysis, conclusion, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	args := append(commandArgs(cmd), r.deliveredAt(cmd.Status))
	l, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Laudo, error) {
		return repository.QueryOne(ctx, tx, q, args, scanLaudo)
	})

	if err != nil {
		// No row can be missing on insert; a foreign key miss is the case.
		return nil, repository.MapError(err, ErrUnknownProcess, ErrInvalidLaudo)
	}

	r.logger.Info("laudo created", "id", l.ID, "process_number", l.ProcessNumber)
	return &l, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Laudo, error) {
	cmd = cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE laudos
		SET process_number = $1, title = $2, kind = $3, status = $4, introduction = $5,
			methodology = $6, analysis = $7, conclusion = $8,
			delivered_at = COALESCE(delivered_at, $9), updated_at = NOW()
		WHERE id = $10
		` + returning

	args := append(commandArgs(cmd), r.deliveredAt(cmd.Status), id)
	l, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Laudo, error) {
		return repository.QueryOne(ctx, tx, q, args, scanLaudo)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, repository.MapError(err, ErrUnknownProcess, ErrInvalidLaudo)
	}

	r.logger.Info("laudo updated", "id", l.ID)
	return &l, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Laudo, error) {
	status, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE laudos
		SET status = $1, delivered_at = COALESCE(delivered_at, $2), updated_at = NOW()
		WHERE id = $3
		` + returning

	l, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Laudo, error) {
		l, err := repository.QueryOne(ctx, tx, q, []any{status, r.deliveredAt(status), id}, scanLaudo)
		if err != nil || status != StatusDelivered {
			return l, err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE processes
			SET status = 'laudo_entregue', updated_at = NOW()
			WHERE number = $1 AND status IN ('em_andamento', 'aguardando_documentos', 'aguardando_audiencia')`,
			l.ProcessNumber,
		)
		return l, err
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalidLaudo)
	}

	r.logger.Info("laudo status changed", "id", l.ID, "status", l.Status)
	return &l, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM laudos WHERE id = $1", id)
		return struct{}{}, err
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return repository.MapError(err, ErrNotFound, ErrInvalidLaudo)
	}

	r.logger.Info("laudo deleted", "id", id)
	return nil
}

// deliveredAt is today for delivered laudos and NULL otherwise. Callers
// COALESCE it so an earlier delivery date is kept.
func (r *repo) deliveredAt(status Status) any {
	if status != StatusDelivered {
		return nil
	}
	return photos.NewDate(r.clock()).Time
}

func commandArgs(cmd CreateCommand) []any {
	return []any{
		cmd.ProcessNumber,
		cmd.Title,
		cmd.Kind,
		string(cmd.Status),
		cmd.Introduction,
		cmd.Methodology,
		cmd.Analysis,
		cmd.Conclusion,
	}
}
