package processes

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

const returning = `RETURNING id, number, court, kind, party, status, designated_at, deadline,
	fee_cents, description, created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	clock      func() time.Time
}

func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "processes"),
		pagination: pagination,
		clock:      time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Process], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Number", "Party", "Court", "Kind")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count processes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProcess)
	if err != nil {
		return nil, fmt.Errorf("query processes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Process, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProcess)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) FindByNumber(ctx context.Context, number string) (*Process, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Number", number)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProcess)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Process, error) {
	cmd = cmd.Normalize()
	if cmd.DesignatedAt.IsZero() {
		cmd.DesignatedAt = photos.NewDate(r.clock())
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO processes (number, court, kind, party, status, designated_at, deadline, fee_cents, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Process, error) {
		return repository.QueryOne(ctx, tx, q, commandArgs(cmd), scanProcess)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("process created", "id", p.ID, "number", p.Number)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Process, error) {
	cmd = cmd.Normalize()
	if cmd.DesignatedAt.IsZero() {
		return nil, fmt.Errorf("%w: designated_at is required", ErrInvalidProcess)
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE processes
		SET number = $1, court = $2, kind = $3, party = $4, status = $5,
			designated_at = $6, deadline = $7, fee_cents = $8, description = $9,
			updated_at = NOW()
		WHERE id = $10
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Process, error) {
		return repository.QueryOne(ctx, tx, q, append(commandArgs(cmd), id), scanProcess)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("process updated", "id", p.ID, "number", p.Number)
	return &p, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Process, error) {
	status, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE processes
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Process, error) {
		return repository.QueryOne(ctx, tx, q, []any{status, id}, scanProcess)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("process status changed", "id", p.ID, "status", p.Status)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM processes WHERE id = $1", id)
		return struct{}{}, err
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("process deleted", "id", id)
	return nil
}

// Summary counts the docket by state and lists the next open deadlines
// within horizon days of today.
func (r *repo) Summary(ctx context.Context, today time.Time, horizon int) (*Summary, error) {
	day := photos.NewDate(today).Time

	q := `
		SELECT
			COUNT(*) FILTER (WHERE status NOT IN ('laudo_entregue', 'concluido')),
			COUNT(*) FILTER (WHERE status = 'laudo_entregue'),
			COUNT(*) FILTER (WHERE status = 'concluido'),
			COUNT(*) FILTER (WHERE status NOT IN ('laudo_entregue', 'concluido') AND deadline < $1),
			COALESCE(SUM(fee_cents) FILTER (WHERE status <> 'concluido'), 0)::bigint
		FROM processes`

	var s Summary
	err := r.db.QueryRowContext(ctx, q, day).Scan(
		&s.Active,
		&s.Delivered,
		&s.Concluded,
		&s.Overdue,
		&s.PendingFees,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize processes: %w", err)
	}

	open := []string{string(StatusInProgress), string(StatusAwaitingDocs), string(StatusAwaitingHearing)}
	until := day.AddDate(0, 0, max(horizon, 0))

	qb := query.NewBuilder(projection, defaultSort).
		WhereAfter("Deadline", day).
		WhereBefore("Deadline", until)
	query.WhereIn(qb, "Status", open)

	upcomingSQL, args := qb.BuildAll()
	upcoming, err := repository.QueryMany(ctx, r.db, upcomingSQL, args, scanProcess)
	if err != nil {
		return nil, fmt.Errorf("query upcoming deadlines: %w", err)
	}
	if upcoming == nil {
		upcoming = []Process{}
	}
	s.Upcoming = upcoming
	return &s, nil
}

func commandArgs(cmd CreateCommand) []any {
	return []any{
		cmd.Number,
		cmd.Court,
		cmd.Kind,
		cmd.Party,
		string(cmd.Status),
		cmd.DesignatedAt.Time,
		cmd.Deadline.Time,
		int64(cmd.Fee),
		cmd.Description,
	}
}
