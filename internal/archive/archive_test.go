package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
	"github.com/JaimeStill/perito-hub/pkg/routes"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSystem struct {
	archive.System
	reports map[uuid.UUID]*archive.Report
	deleted []uuid.UUID
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*archive.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return r, nil
}

func (f *fakeSystem) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newMux(sys archive.System) *http.ServeMux {
	mux := http.NewServeMux()
	h := archive.NewHandler(sys, testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	routes.Register(mux, "/api", nil, h.Routes())
	return mux
}

func TestReport_Snapshot(t *testing.T) {
	ref := "LAU-2023-001"
	date := photos.NewDate(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC))
	r := archive.Report{
		ID:               uuid.New(),
		ProcessRef:       "0001234-56.2023.8.26.0100",
		RelatedReportRef: &ref,
		Title:            "Vistoria",
		PageSize:         reports.PageLetter,
		Orientation:      reports.Landscape,
		FooterText:       "rodapé",
		Photos: []photos.Record{
			{ID: 3, URL: "storage://photos/a/1.jpg", Caption: "Sala", Date: date},
			{ID: 1, URL: "storage://photos/a/2.jpg", Caption: "Cozinha"},
		},
	}

	snap := r.Snapshot()

	if snap.ReportID != r.ID {
		t.Errorf("ReportID = %s, want %s", snap.ReportID, r.ID)
	}
	if snap.Photos[0].ID != 3 || snap.Photos[1].ID != 1 {
		t.Errorf("photo order = %d,%d; want 3,1", snap.Photos[0].ID, snap.Photos[1].ID)
	}
	want := reports.Options{PageSize: reports.PageLetter, Orientation: reports.Landscape, FooterText: "rodapé"}
	if snap.Options != want {
		t.Errorf("Options = %+v, want %+v", snap.Options, want)
	}

	snap.Photos[0].Caption = "changed"
	*snap.Metadata.RelatedReportRef = "other"
	if r.Photos[0].Caption != "Sala" {
		t.Error("snapshot photos alias the report")
	}
	if *r.RelatedReportRef != "LAU-2023-001" {
		t.Error("snapshot metadata aliases the report")
	}
}

func TestSave_RequiresReportID(t *testing.T) {
	sys := archive.New(nil, nil, testLogger(), pagination.Config{})

	_, err := sys.Save(context.Background(), reports.Snapshot{})
	if !errors.Is(err, reports.ErrPersist) {
		t.Errorf("Save() error = %v, want ErrPersist", err)
	}
}

func TestHandler_Find(t *testing.T) {
	id := uuid.New()
	sys := &fakeSystem{reports: map[uuid.UUID]*archive.Report{
		id: {ID: id, Title: "Vistoria", Photos: []photos.Record{{ID: 1, URL: "storage://x"}}},
	}}
	mux := newMux(sys)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/reports/" + id.String(), http.StatusOK},
		{"missing", "/reports/" + uuid.NewString(), http.StatusNotFound},
		{"bad id", "/reports/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}

			var got archive.Report
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Title != "Vistoria" || len(got.Photos) != 1 {
				t.Errorf("report = %+v, want Vistoria with 1 photo", got)
			}
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	sys := &fakeSystem{}
	mux := newMux(sys)
	id := uuid.New()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/reports/"+id.String(), nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(sys.deleted) != 1 || sys.deleted[0] != id {
		t.Errorf("deleted = %v, want [%s]", sys.deleted, id)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports?process_ref=0001&title=vist", nil)
	f := archive.FiltersFromQuery(req.URL.Query())

	if f.ProcessRef == nil || *f.ProcessRef != "0001" {
		t.Errorf("ProcessRef = %v, want 0001", f.ProcessRef)
	}
	if f.Title == nil || *f.Title != "vist" {
		t.Errorf("Title = %v, want vist", f.Title)
	}
}
