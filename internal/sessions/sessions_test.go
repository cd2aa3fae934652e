package sessions_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/laudos"
	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/internal/sessions"
	"github.com/JaimeStill/perito-hub/pkg/routes"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/google/uuid"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeGateway struct {
	mu      sync.Mutex
	release chan struct{}
	err     error
	snaps   []reports.Snapshot
}

func (g *fakeGateway) Generate(ctx context.Context, snap reports.Snapshot) (reports.Artifact, error) {
	g.mu.Lock()
	g.snaps = append(g.snaps, snap)
	release, err := g.release, g.err
	g.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return reports.Artifact{}, err
	}
	return reports.Artifact{ID: uuid.New(), Filename: "relatorio.pdf", ContentType: "application/pdf", PageCount: len(snap.Photos)}, nil
}

type fakeCatalog struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*archive.Report
	refs    map[string]bool
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		reports: make(map[uuid.UUID]*archive.Report),
		refs:    make(map[string]bool),
	}
}

func (c *fakeCatalog) Save(ctx context.Context, snap reports.Snapshot) (reports.Ack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[snap.ReportID] = &archive.Report{
		ID:          snap.ReportID,
		ProcessRef:  snap.Metadata.ProcessRef,
		Title:       snap.Metadata.Title,
		PageSize:    snap.Options.PageSize,
		Orientation: snap.Options.Orientation,
		FooterText:  snap.Options.FooterText,
		Photos:      snap.Photos,
	}
	for _, p := range snap.Photos {
		c.refs[p.URL] = true
	}
	return reports.Ack{ReportID: snap.ReportID, SavedAt: time.Now()}, nil
}

func (c *fakeCatalog) Find(ctx context.Context, id uuid.UUID) (*archive.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[id]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return r, nil
}

func (c *fakeCatalog) Referenced(ctx context.Context, urls []string) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := make(map[string]bool)
	for _, u := range urls {
		if c.refs[u] {
			found[u] = true
		}
	}
	return found, nil
}

const caseNumber = "0001234-56.2023.8.26.0100"

type fakeLaudos map[uuid.UUID]*laudos.Laudo

func (l fakeLaudos) Find(ctx context.Context, id uuid.UUID) (*laudos.Laudo, error) {
	if found, ok := l[id]; ok {
		return found, nil
	}
	return nil, laudos.ErrNotFound
}

type fixture struct {
	sys     sessions.System
	store   storage.System
	gateway *fakeGateway
	catalog *fakeCatalog
	laudo   uuid.UUID
}

func newFixture(t *testing.T, settings sessions.Settings) *fixture {
	t.Helper()
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	f := &fixture{store: store, gateway: &fakeGateway{}, catalog: newCatalog(), laudo: uuid.New()}
	known := fakeLaudos{f.laudo: {ID: f.laudo, ProcessNumber: caseNumber, Status: laudos.StatusDrafting}}
	f.sys = sessions.New(f.gateway, f.catalog, known, store, testLogger(), settings)
	return f
}

func (f *fixture) open(t *testing.T) *sessions.Session {
	t.Helper()
	s, err := f.sys.Open(context.Background(), sessions.OpenCommand{Title: "Vistoria"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func (f *fixture) exists(t *testing.T, url string) bool {
	t.Helper()
	key, ok := storage.KeyFromURL(url)
	if !ok {
		t.Fatalf("%q is not a storage url", url)
	}
	found, err := f.store.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	return found
}

func (f *fixture) mux() *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, "/api", nil, f.sys.Handler().Routes())
	return mux
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func upload(t *testing.T, s *sessions.Session, names ...string) []photos.Record {
	t.Helper()
	uploads := make([]sessions.Upload, len(names))
	for i, n := range names {
		uploads[i] = sessions.Upload{Filename: n, Data: pngHeader}
	}
	recs, err := s.Upload(context.Background(), uploads)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return recs
}

func TestOpen_Defaults(t *testing.T) {
	f := newFixture(t, sessions.Settings{DefaultFooter: "Perito Fulano - CREA 1234"})
	s := f.open(t)

	info := s.Info(true)
	if info.State != reports.StateIdle {
		t.Errorf("State = %q, want %q", info.State, reports.StateIdle)
	}
	if info.Dirty {
		t.Error("Dirty = true, want false")
	}
	want := reports.Options{PageSize: reports.PageA4, Orientation: reports.Portrait, FooterText: "Perito Fulano - CREA 1234"}
	if info.Options != want {
		t.Errorf("Options = %+v, want %+v", info.Options, want)
	}
	if info.Metadata.Title != "Vistoria" {
		t.Errorf("Title = %q, want Vistoria", info.Metadata.Title)
	}
}

func TestOpen_OptionsPatch(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	empty := ""

	s, err := f.sys.Open(context.Background(), sessions.OpenCommand{
		Options: &sessions.OptionsPatch{PageSize: "Legal", FooterText: &empty},
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	want := reports.Options{PageSize: reports.PageLegal, Orientation: reports.Portrait, FooterText: ""}
	if got := s.Editor().Options(); got != want {
		t.Errorf("Options = %+v, want %+v", got, want)
	}

	_, err = f.sys.Open(context.Background(), sessions.OpenCommand{
		Options: &sessions.OptionsPatch{PageSize: "Tabloid"},
	})
	if !errors.Is(err, reports.ErrInvalidOption) {
		t.Errorf("Open(Tabloid) error = %v, want ErrInvalidOption", err)
	}
}

func TestOpen_ResumesSavedReport(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	id := uuid.New()
	f.catalog.reports[id] = &archive.Report{
		ID:          id,
		Title:       "Laudo 12",
		PageSize:    reports.PageLetter,
		Orientation: reports.Landscape,
		Photos: []photos.Record{
			{ID: 4, URL: "https://example.com/a.jpg", Caption: "A"},
			{ID: 7, URL: "https://example.com/b.jpg", Caption: "B"},
		},
	}

	s, err := f.sys.Open(context.Background(), sessions.OpenCommand{ReportID: &id})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	info := s.Info(true)
	if info.ReportID != id {
		t.Errorf("ReportID = %s, want %s", info.ReportID, id)
	}
	if info.Dirty {
		t.Error("Dirty = true after resume, want false")
	}
	if len(info.Photos) != 2 || info.Photos[1].ID != 7 {
		t.Errorf("Photos = %+v, want ids [4 7]", info.Photos)
	}

	rec, _ := s.AddPhoto(photos.Draft{URL: "https://example.com/c.jpg"})
	if rec.ID != 8 {
		t.Errorf("next id = %d, want 8", rec.ID)
	}

	missing := uuid.New()
	if _, err := f.sys.Open(context.Background(), sessions.OpenCommand{ReportID: &missing}); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("Open(missing) error = %v, want archive.ErrNotFound", err)
	}
}

func TestUpload_NaturalOrderAndCaptions(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)

	recs := upload(t, s, "sala_rachadura.png", "IMG_0042.png")
	if recs[0].Caption != "sala rachadura" {
		t.Errorf("caption = %q, want %q", recs[0].Caption, "sala rachadura")
	}
	if recs[1].Caption != sessions.DefaultCaption {
		t.Errorf("caption = %q, want %q", recs[1].Caption, sessions.DefaultCaption)
	}
	if recs[1].Location != sessions.DefaultLocation {
		t.Errorf("location = %q, want %q", recs[1].Location, sessions.DefaultLocation)
	}
	if recs[0].Date.IsZero() {
		t.Error("date is zero, want today")
	}
	for _, r := range recs {
		if !f.exists(t, r.URL) {
			t.Errorf("blob for %s missing", r.URL)
		}
	}

	if _, err := s.Upload(context.Background(), []sessions.Upload{{Filename: "notes.txt", Data: []byte("texto")}}); !errors.Is(err, sessions.ErrNotImage) {
		t.Errorf("Upload(txt) error = %v, want ErrNotImage", err)
	}
}

func TestHandler_UploadOrder(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"foto10.png", "foto2.png", "foto1.png"} {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(pngHeader)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+s.ID().String()+"/photos/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got []photos.Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	captions := make([]string, len(got))
	for i, r := range got {
		captions[i] = r.Caption
	}
	if strings.Join(captions, ",") != "foto1,foto2,foto10" {
		t.Errorf("captions = %v, want [foto1 foto2 foto10]", captions)
	}
}

func TestDeletePhoto_ReleasesUnreferencedBlob(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)
	recs := upload(t, s, "a.png", "b.png")

	if _, err := s.Save(context.Background()).Wait(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	saved := recs[0].URL

	more := upload(t, s, "c.png")

	if _, err := s.DeletePhoto(context.Background(), recs[0].ID); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if _, err := s.DeletePhoto(context.Background(), more[0].ID); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}

	eventually(t, func() bool { return !f.exists(t, more[0].URL) })
	if !f.exists(t, saved) {
		t.Error("blob used by saved report was deleted")
	}
}

func TestDeletePhoto_DefersWhileExporting(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)
	recs := upload(t, s, "a.png")

	release := make(chan struct{})
	f.gateway.release = release
	task := s.Export(context.Background())

	if _, err := s.DeletePhoto(context.Background(), recs[0].ID); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if !f.exists(t, recs[0].URL) {
		t.Fatal("blob deleted while an export could still read it")
	}

	close(release)
	if _, err := task.Wait(context.Background()); err != nil {
		t.Fatalf("export error = %v", err)
	}
	eventually(t, func() bool { return !f.exists(t, recs[0].URL) })
}

func TestClose_ReleasesAndEndsStreams(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)
	recs := upload(t, s, "a.png")

	stream, err := s.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := f.sys.Close(context.Background(), s.ID()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if f.exists(t, recs[0].URL) {
		t.Error("unsaved blob kept after close")
	}
	for range stream.Events() {
	}
	if _, err := f.sys.Get(s.ID()); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := s.AddPhoto(photos.Draft{}); !errors.Is(err, reports.ErrClosed) {
		t.Errorf("AddPhoto() after close error = %v, want ErrClosed", err)
	}
	if err := f.sys.Close(context.Background(), s.ID()); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestSubscribe_ReceivesEditorEvents(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)

	stream, err := s.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer s.Unsubscribe(stream)

	s.AddPhoto(photos.Draft{URL: "https://example.com/a.jpg"})
	s.Editor().UpdateOption(reports.OptionPageSize, "Tabloid")

	want := []reports.EventType{reports.EventPhotoAdded, reports.EventOptionInvalid}
	for _, w := range want {
		select {
		case ev := <-stream.Events():
			if ev.Type != w {
				t.Errorf("event = %s, want %s", ev.Type, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("no %s event", w)
		}
	}
}

func TestSweep(t *testing.T) {
	f := newFixture(t, sessions.Settings{IdleTimeout: time.Hour})
	idle := f.open(t)
	busy := f.open(t)
	upload(t, busy, "a.png")

	release := make(chan struct{})
	f.gateway.release = release
	task := busy.Export(context.Background())

	if n := f.sys.Sweep(context.Background(), time.Now().Add(30*time.Minute)); n != 0 {
		t.Errorf("Sweep(+30m) = %d, want 0", n)
	}
	if n := f.sys.Sweep(context.Background(), time.Now().Add(2*time.Hour)); n != 1 {
		t.Errorf("Sweep(+2h) = %d, want 1", n)
	}
	if _, err := f.sys.Get(idle.ID()); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Get(idle) error = %v, want ErrNotFound", err)
	}
	if _, err := f.sys.Get(busy.ID()); err != nil {
		t.Errorf("Get(busy) error = %v, want nil", err)
	}

	close(release)
	task.Wait(context.Background())
}

func TestList(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	first := f.open(t)
	time.Sleep(2 * time.Millisecond)
	second := f.open(t)

	infos := f.sys.List()
	if len(infos) != 2 {
		t.Fatalf("List() len = %d, want 2", len(infos))
	}
	if infos[0].ID != second.ID() || infos[1].ID != first.ID() {
		t.Errorf("List() order = [%s %s], want most recent first", infos[0].ID, infos[1].ID)
	}
	if infos[0].Photos != nil {
		t.Error("List() includes photos, want summary only")
	}
}

func TestHandler_EditFlow(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)
	mux := f.mux()
	base := "/sessions/" + s.ID().String()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, base+path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	for _, c := range []string{"A", "B", "C"} {
		if rec := do(http.MethodPost, "/photos", `{"url": "https://example.com/`+c+`.jpg", "caption": "`+c+`"}`); rec.Code != http.StatusCreated {
			t.Fatalf("add %s status = %d", c, rec.Code)
		}
	}

	if rec := do(http.MethodPost, "/photos/2/move", `{"direction": "up"}`); rec.Code != http.StatusOK {
		t.Fatalf("move status = %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/photos/9/move", `{"direction": "up"}`); rec.Code != http.StatusNotFound {
		t.Errorf("move unknown status = %d, want 404", rec.Code)
	}
	if rec := do(http.MethodDelete, "/photos/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(http.MethodDelete, "/photos/1", ""); rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204", rec.Code)
	}
	if rec := do(http.MethodPatch, "/photos/3", `{"field": "date", "value": "15/03/2024"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
	if rec := do(http.MethodPatch, "/options", `{"field": "footer_text", "value": "X"}`); rec.Code != http.StatusOK {
		t.Fatalf("footer status = %d", rec.Code)
	}
	if rec := do(http.MethodPatch, "/options", `{"field": "page_size", "value": "Tabloid"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Tabloid status = %d, want 400", rec.Code)
	}

	rec := do(http.MethodPost, "/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d (body %s)", rec.Code, rec.Body.String())
	}

	snap := f.gateway.snaps[0]
	if len(snap.Photos) != 2 || snap.Photos[0].ID != 2 || snap.Photos[1].ID != 3 {
		t.Errorf("exported ids = %+v, want [2 3]", snap.Photos)
	}
	if snap.Options.FooterText != "X" || snap.Options.PageSize != reports.PageA4 {
		t.Errorf("exported options = %+v, want A4 with footer X", snap.Options)
	}
}

func TestHandler_ExportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", reports.ErrExportTimeout, http.StatusGatewayTimeout},
		{"unavailable", reports.ErrExportUnavailable, http.StatusServiceUnavailable},
		{"invalid", reports.ErrExportInvalidInput, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sessions.Settings{})
			f.gateway.err = tt.err
			s := f.open(t)

			req := httptest.NewRequest(http.MethodPost, "/sessions/"+s.ID().String()+"/export", nil)
			rec := httptest.NewRecorder()
			f.mux().ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandler_Events(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s := f.open(t)

	srv := httptest.NewServer(f.mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sessions/" + s.ID().String() + "/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	next := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read event: %v", err)
			}
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				return strings.TrimSpace(name)
			}
		}
	}

	if got := next(); got != "session" {
		t.Fatalf("first event = %q, want session", got)
	}

	s.AddPhoto(photos.Draft{URL: "https://example.com/a.jpg"})
	if got := next(); got != string(reports.EventPhotoAdded) {
		t.Errorf("event = %q, want %s", got, reports.EventPhotoAdded)
	}

	f.sys.Close(context.Background(), s.ID())
	if got := next(); got != "closed" {
		t.Errorf("event = %q, want closed", got)
	}
}

func TestOpen_RelatedLaudo(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	ref := func(s string) *string { return &s }

	s, err := f.sys.Open(context.Background(), sessions.OpenCommand{RelatedReportRef: ref(" " + f.laudo.String() + " ")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	md := s.Editor().Metadata()
	if md.RelatedReportRef == nil || *md.RelatedReportRef != f.laudo.String() {
		t.Errorf("RelatedReportRef = %v, want %s", md.RelatedReportRef, f.laudo)
	}
	if md.ProcessRef != caseNumber {
		t.Errorf("ProcessRef = %q, want the laudo's case %q", md.ProcessRef, caseNumber)
	}

	s, err = f.sys.Open(context.Background(), sessions.OpenCommand{RelatedReportRef: ref("")})
	if err != nil {
		t.Fatalf("Open(blank ref) error = %v", err)
	}
	if s.Editor().Metadata().RelatedReportRef != nil {
		t.Error("blank related_report_ref should be cleared")
	}

	tests := []struct {
		name string
		cmd  sessions.OpenCommand
	}{
		{"not an id", sessions.OpenCommand{RelatedReportRef: ref("Laudo 12")}},
		{"unknown laudo", sessions.OpenCommand{RelatedReportRef: ref(uuid.NewString())}},
		{"other case", sessions.OpenCommand{ProcessRef: "0007654-32.2023.8.26.0100", RelatedReportRef: ref(f.laudo.String())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.sys.Open(context.Background(), tt.cmd); !errors.Is(err, sessions.ErrUnknownLaudo) {
				t.Errorf("Open() error = %v, want ErrUnknownLaudo", err)
			}
		})
	}

	if n := len(f.sys.List()); n != 2 {
		t.Errorf("List() = %d sessions, want 2", n)
	}
}

func TestHandler_UpdateRelatedLaudo(t *testing.T) {
	f := newFixture(t, sessions.Settings{})
	s, err := f.sys.Open(context.Background(), sessions.OpenCommand{ProcessRef: caseNumber})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	mux := f.mux()

	patch := func(value string) int {
		body := `{"field": "related_report_ref", "value": "` + value + `"}`
		req := httptest.NewRequest(http.MethodPatch, "/sessions/"+s.ID().String()+"/metadata", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := patch(uuid.NewString()); code != http.StatusUnprocessableEntity {
		t.Errorf("unknown laudo status = %d, want 422", code)
	}
	if s.Editor().Metadata().RelatedReportRef != nil {
		t.Error("rejected reference was stored")
	}

	if code := patch(f.laudo.String()); code != http.StatusOK {
		t.Fatalf("known laudo status = %d, want 200", code)
	}
	if ref := s.Editor().Metadata().RelatedReportRef; ref == nil || *ref != f.laudo.String() {
		t.Errorf("RelatedReportRef = %v, want %s", ref, f.laudo)
	}

	if code := patch(""); code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", code)
	}
	if s.Editor().Metadata().RelatedReportRef != nil {
		t.Error("reference not cleared")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{sessions.ErrNotFound, http.StatusNotFound},
		{archive.ErrNotFound, http.StatusNotFound},
		{reports.ErrClosed, http.StatusGone},
		{sessions.ErrUploadTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("store photo: %w", storage.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{sessions.ErrNotImage, http.StatusUnsupportedMediaType},
		{sessions.ErrUnknownLaudo, http.StatusUnprocessableEntity},
		{photos.ErrInvalidDate, http.StatusBadRequest},
		{reports.ErrInvalidOption, http.StatusBadRequest},
		{reports.ErrPersist, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := sessions.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
