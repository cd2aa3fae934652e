package exports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
	renderer   *renderer
	previews   previewer
	settings   Settings
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the export system. Zero-valued settings fall back to
// DefaultSettings.
func New(db *sql.DB, store storage.System, logger *slog.Logger, pagination pagination.Config, settings Settings) System {
	settings = settings.withDefaults()
	return &repo{
		db:      db,
		storage: store,
		renderer: &renderer{
			source:   newSource(store, settings),
			settings: settings,
		},
		previews:   imageMagickPreviewer{dpi: settings.PreviewDPI},
		settings:   settings,
		logger:     logger.With("system", "exports"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Generate renders snap to a PDF, stores it and records the artifact. The
// whole call is bounded by the configured timeout; exceeding it reports
// reports.ErrExportTimeout.
func (r *repo) Generate(ctx context.Context, snap reports.Snapshot) (reports.Artifact, error) {
	if err := validateSnapshot(snap); err != nil {
		return reports.Artifact{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.settings.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan renderResult, 1)
	go func() {
		doc, err := r.renderer.render(ctx, snap)
		done <- renderResult{doc: doc, err: err}
	}()

	var doc *renderedPDF
	select {
	case <-ctx.Done():
		return reports.Artifact{}, r.classify(ctx.Err())
	case res := <-done:
		if res.err != nil {
			return reports.Artifact{}, r.classify(res.err)
		}
		doc = res.doc
	}

	artifact, err := r.create(ctx, snap, doc)
	if err != nil {
		return reports.Artifact{}, r.classify(err)
	}

	r.logger.Info("report exported",
		"id", artifact.ID,
		"report_id", snap.ReportID,
		"pages", artifact.PageCount,
		"bytes", artifact.SizeBytes,
		"duration", time.Since(start),
	)
	return artifact.Reference(), nil
}

type renderResult struct {
	doc *renderedPDF
	err error
}

func (r *repo) create(ctx context.Context, snap reports.Snapshot, doc *renderedPDF) (*Artifact, error) {
	id := uuid.New()
	filename := Filename(snap.Metadata.Title)
	storageKey := storage.BuildKey("exports", id, filename)

	if err := r.storage.Store(ctx, storageKey, doc.data); err != nil {
		return nil, fmt.Errorf("%w: store pdf: %v", reports.ErrExportUnavailable, err)
	}

	q := `INSERT INTO artifacts (id, report_id, report_title, process_ref, filename, content_type,
			size_bytes, page_count, page_size, orientation, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, report_id, report_title, process_ref, filename, content_type,
			size_bytes, page_count, page_size, orientation, storage_key, created_at`

	artifact, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id,
			snap.ReportID,
			snap.Metadata.Title,
			snap.Metadata.ProcessRef,
			filename,
			ContentTypePDF,
			int64(len(doc.data)),
			doc.pages,
			string(snap.Options.PageSize),
			string(snap.Options.Orientation),
			storageKey,
		}, scanArtifact)
	})

	if err != nil {
		if delErr := r.storage.Delete(context.WithoutCancel(ctx), storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: record artifact: %v", reports.ErrExportUnavailable, err)
	}

	return &artifact, nil
}

// classify maps context expiry to the export timeout kind and leaves
// already-classified errors untouched.
func (r *repo) classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: exceeded %s", reports.ErrExportTimeout, r.settings.Timeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", reports.ErrExportUnavailable, err)
	case errors.Is(err, reports.ErrExportInvalidInput),
		errors.Is(err, reports.ErrExportUnavailable),
		errors.Is(err, reports.ErrExportTimeout):
		return err
	default:
		return fmt.Errorf("%w: %v", reports.ErrExportUnavailable, err)
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Artifact], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ReportTitle", "Filename", "ProcessRef")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Artifact, []byte, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: stored file missing", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("retrieve artifact: %w", err)
	}
	return a, data, nil
}

// Preview returns page as a PNG, rendering it on first request and serving
// the cached image afterwards.
func (r *repo) Preview(ctx context.Context, id uuid.UUID, page int) ([]byte, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if page < 1 || page > a.PageCount {
		return nil, fmt.Errorf("%w: page %d not in [1-%d]", ErrPageOutOfRange, page, a.PageCount)
	}

	key := previewKey(a.ID, page)
	if data, err := r.storage.Retrieve(ctx, key); err == nil {
		return data, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("retrieve preview: %w", err)
	}

	path, err := r.storage.Path(ctx, a.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}

	data, err := r.previews.render(path, page)
	if err != nil {
		return nil, err
	}

	if err := r.storage.Store(ctx, key, data); err != nil {
		r.logger.Warn("preview cache write failed", "artifact_id", a.ID, "page", page, "error", err)
	}
	return data, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	q := `DELETE FROM artifacts WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	keys := []string{a.StorageKey}
	for page := 1; page <= a.PageCount; page++ {
		keys = append(keys, previewKey(a.ID, page))
	}
	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
		}
	}

	r.logger.Info("artifact deleted", "id", id)
	return nil
}

func validateSnapshot(snap reports.Snapshot) error {
	if len(snap.Photos) == 0 {
		return fmt.Errorf("%w: report has no photos", reports.ErrExportInvalidInput)
	}
	if err := snap.Options.Validate(); err != nil {
		return fmt.Errorf("%w: %v", reports.ErrExportInvalidInput, err)
	}
	for _, p := range snap.Photos {
		if p.URL == "" {
			return fmt.Errorf("%w: photo %d has no url", reports.ErrExportInvalidInput, p.ID)
		}
	}
	return nil
}

func previewKey(id uuid.UUID, page int) string {
	return fmt.Sprintf("exports/%s/previews/page-%d.png", id, page)
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Timeout <= 0 {
		s.Timeout = d.Timeout
	}
	if s.MaxImageDimension <= 0 {
		s.MaxImageDimension = d.MaxImageDimension
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		s.JPEGQuality = d.JPEGQuality
	}
	if s.PreviewDPI <= 0 {
		s.PreviewDPI = d.PreviewDPI
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = d.FetchTimeout
	}
	if s.MaxFetchBytes <= 0 {
		s.MaxFetchBytes = d.MaxFetchBytes
	}
	return s
}
