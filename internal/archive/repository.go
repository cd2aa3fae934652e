package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/JaimeStill/perito-hub/pkg/query"
	"github.com/JaimeStill/perito-hub/pkg/repository"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

func New(db *sql.DB, store storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "archive"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Save upserts the report and replaces its photo sequence in one
// transaction. Uploaded blobs no longer referenced by any saved report are
// removed after commit.
func (r *repo) Save(ctx context.Context, snap reports.Snapshot) (reports.Ack, error) {
	if snap.ReportID == uuid.Nil {
		return reports.Ack{}, fmt.Errorf("%w: missing report id", reports.ErrPersist)
	}

	type saved struct {
		ack     reports.Ack
		dropped []string
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (saved, error) {
		previous, err := r.photoURLs(ctx, tx, snap.ReportID)
		if err != nil {
			return saved{}, err
		}

		ack, err := upsertReport(ctx, tx, snap)
		if err != nil {
			return saved{}, err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM saved_report_photos WHERE report_id = $1`, snap.ReportID); err != nil {
			return saved{}, err
		}

		current := make(map[string]bool, len(snap.Photos))
		for i, p := range snap.Photos {
			if err := insertPhoto(ctx, tx, snap.ReportID, i+1, p); err != nil {
				return saved{}, err
			}
			current[p.URL] = true
		}

		var dropped []string
		for _, u := range previous {
			if !current[u] {
				dropped = append(dropped, u)
			}
		}
		return saved{ack: ack, dropped: dropped}, nil
	})

	if err != nil {
		return reports.Ack{}, fmt.Errorf("%w: %v", reports.ErrPersist, err)
	}

	r.releaseOrphans(ctx, result.dropped)

	r.logger.Info("report saved", "id", snap.ReportID, "photos", len(snap.Photos), "revision", snap.Revision)
	return result.ack, nil
}

func upsertReport(ctx context.Context, tx *sql.Tx, snap reports.Snapshot) (reports.Ack, error) {
	q := `INSERT INTO saved_reports (id, process_ref, related_report_ref, title, description,
			page_size, orientation, footer_text, photo_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			process_ref = EXCLUDED.process_ref,
			related_report_ref = EXCLUDED.related_report_ref,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			page_size = EXCLUDED.page_size,
			orientation = EXCLUDED.orientation,
			footer_text = EXCLUDED.footer_text,
			photo_count = EXCLUDED.photo_count,
			updated_at = NOW()
		RETURNING id, updated_at`

	m := snap.Metadata
	return repository.QueryOne(ctx, tx, q, []any{
		snap.ReportID,
		m.ProcessRef,
		m.RelatedReportRef,
		m.Title,
		m.Description,
		string(snap.Options.PageSize),
		string(snap.Options.Orientation),
		snap.Options.FooterText,
		len(snap.Photos),
	}, func(s repository.Scanner) (reports.Ack, error) {
		var ack reports.Ack
		err := s.Scan(&ack.ReportID, &ack.SavedAt)
		return ack, err
	})
}

func insertPhoto(ctx context.Context, tx *sql.Tx, reportID uuid.UUID, position int, p photos.Record) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO saved_report_photos (report_id, position, photo_id, url, caption, location, taken_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reportID, position, p.ID, p.URL, p.Caption, p.Location, nullDate(p.Date),
	)
	return err
}

func (r *repo) photoURLs(ctx context.Context, db repository.Querier, reportID uuid.UUID) ([]string, error) {
	return repository.QueryMany(ctx, db,
		`SELECT url FROM saved_report_photos WHERE report_id = $1 ORDER BY position`,
		[]any{reportID},
		func(s repository.Scanner) (string, error) {
			var u string
			err := s.Scan(&u)
			return u, err
		},
	)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description", "ProcessRef")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReport)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Find returns the report with its photos in saved order.
func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	report, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	records, err := repository.QueryMany(ctx, r.db,
		`SELECT photo_id, url, caption, location, taken_on
		FROM saved_report_photos WHERE report_id = $1 ORDER BY position`,
		[]any{id},
		scanPhoto,
	)
	if err != nil {
		return nil, fmt.Errorf("query report photos: %w", err)
	}

	report.Photos = records
	if report.Photos == nil {
		report.Photos = []photos.Record{}
	}
	return &report, nil
}

func scanPhoto(s repository.Scanner) (photos.Record, error) {
	var (
		p     photos.Record
		taken sql.NullTime
	)
	err := s.Scan(&p.ID, &p.URL, &p.Caption, &p.Location, &taken)
	p.Date = dateFromNull(taken)
	return p, err
}

// Delete removes the report and any uploaded blobs only it referenced.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	urls, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		urls, err := r.photoURLs(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := repository.ExecExpectOne(ctx, tx, `DELETE FROM saved_reports WHERE id = $1`, id); err != nil {
			return nil, err
		}
		return urls, nil
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.releaseOrphans(ctx, urls)
	r.logger.Info("report deleted", "id", id)
	return nil
}

func (r *repo) Referenced(ctx context.Context, urls []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(urls) == 0 {
		return found, nil
	}

	refs, err := repository.QueryMany(ctx, r.db,
		`SELECT DISTINCT url FROM saved_report_photos WHERE url = ANY($1)`,
		[]any{urls},
		func(s repository.Scanner) (string, error) {
			var u string
			err := s.Scan(&u)
			return u, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query photo references: %w", err)
	}

	for _, u := range refs {
		found[u] = true
	}
	return found, nil
}

// releaseOrphans deletes uploaded blobs among urls that no saved report
// references. Failures are logged; the saved data is already consistent.
func (r *repo) releaseOrphans(ctx context.Context, urls []string) {
	var candidates []string
	for _, u := range urls {
		if _, ok := storage.KeyFromURL(u); ok {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return
	}

	referenced, err := r.Referenced(ctx, candidates)
	if err != nil {
		r.logger.Warn("orphan check failed", "error", err)
		return
	}

	for _, u := range candidates {
		if referenced[u] {
			continue
		}
		key, _ := storage.KeyFromURL(u)
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
		}
	}
}
