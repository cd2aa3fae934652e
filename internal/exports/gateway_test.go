package exports_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newSystem(t *testing.T, settings exports.Settings) (exports.System, storage.System) {
	t.Helper()
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	return exports.New(nil, store, testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, settings), store
}

func snapshotWith(urls ...string) reports.Snapshot {
	snap := reports.Snapshot{
		ReportID: uuid.New(),
		Metadata: reports.Metadata{Title: "Relatório"},
		Options:  reports.DefaultOptions(""),
	}
	for i, u := range urls {
		snap.Photos = append(snap.Photos, photos.Record{ID: i + 1, URL: u})
	}
	return snap
}

func TestGenerate_RejectsInvalidSnapshots(t *testing.T) {
	sys, _ := newSystem(t, exports.Settings{})

	tests := []struct {
		name string
		snap reports.Snapshot
	}{
		{"no photos", snapshotWith()},
		{"empty url", snapshotWith("")},
		{"bad options", func() reports.Snapshot {
			s := snapshotWith("storage://a.jpg")
			s.Options.PageSize = "tabloid"
			return s
		}()},
		{"unsupported scheme", snapshotWith("ftp://host/a.jpg")},
		{"missing blob", snapshotWith("storage://photos/missing.jpg")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Generate(context.Background(), tt.snap)
			if !errors.Is(err, reports.ErrExportInvalidInput) {
				t.Errorf("Generate() error = %v, want ErrExportInvalidInput", err)
			}
			if kind := reports.ExportErrorKind(err); kind != reports.KindInvalidInput {
				t.Errorf("kind = %q, want %q", kind, reports.KindInvalidInput)
			}
		})
	}
}

func TestGenerate_UndecodablePhoto(t *testing.T) {
	sys, store := newSystem(t, exports.Settings{})

	if err := store.Store(context.Background(), "photos/x/not-an-image.jpg", []byte("plain text")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	_, err := sys.Generate(context.Background(), snapshotWith("storage://photos/x/not-an-image.jpg"))
	if !errors.Is(err, reports.ErrExportInvalidInput) {
		t.Errorf("Generate() error = %v, want ErrExportInvalidInput", err)
	}
}

func TestGenerate_RemotePhotoFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gone.jpg":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	sys, _ := newSystem(t, exports.Settings{})

	tests := []struct {
		path string
		want error
	}{
		{"/gone.jpg", reports.ErrExportInvalidInput},
		{"/busy.jpg", reports.ErrExportUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := sys.Generate(context.Background(), snapshotWith(srv.URL+tt.path))
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	sys, _ := newSystem(t, exports.Settings{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := sys.Generate(context.Background(), snapshotWith(srv.URL+"/slow.jpg"))

	if !errors.Is(err, reports.ErrExportTimeout) {
		t.Fatalf("Generate() error = %v, want ErrExportTimeout", err)
	}
	if kind := reports.ExportErrorKind(err); kind != reports.KindTimeout {
		t.Errorf("kind = %q, want %q", kind, reports.KindTimeout)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Generate() took %s, want bounded by timeout", elapsed)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{exports.ErrNotFound, http.StatusNotFound},
		{exports.ErrDuplicate, http.StatusConflict},
		{exports.ErrPageOutOfRange, http.StatusBadRequest},
		{reports.ErrExportInvalidInput, http.StatusUnprocessableEntity},
		{reports.ErrExportTimeout, http.StatusGatewayTimeout},
		{reports.ErrExportUnavailable, http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := exports.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/exports?report_id="+id.String()+"&process_ref=0001&report_title=vist", nil)

	f := exports.FiltersFromQuery(req.URL.Query())
	if f.ReportID == nil || *f.ReportID != id {
		t.Errorf("ReportID = %v, want %s", f.ReportID, id)
	}
	if f.ProcessRef == nil || *f.ProcessRef != "0001" {
		t.Errorf("ProcessRef = %v, want 0001", f.ProcessRef)
	}
	if f.ReportTitle == nil || *f.ReportTitle != "vist" {
		t.Errorf("ReportTitle = %v, want vist", f.ReportTitle)
	}

	empty := exports.FiltersFromQuery(httptest.NewRequest(http.MethodGet, "/exports?report_id=nope", nil).URL.Query())
	if empty.ReportID != nil {
		t.Error("ReportID parsed from invalid uuid")
	}
}
