package reports_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/google/uuid"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   []reports.Snapshot
	release chan struct{}
	err     error
}

func (g *fakeGateway) Generate(ctx context.Context, snap reports.Snapshot) (reports.Artifact, error) {
	g.mu.Lock()
	g.calls = append(g.calls, snap)
	g.mu.Unlock()

	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return reports.Artifact{}, g.err
	}
	return reports.Artifact{
		ID:          uuid.New(),
		Filename:    "relatorio.pdf",
		ContentType: "application/pdf",
		PageCount:   len(snap.Photos),
	}, nil
}

func (g *fakeGateway) snapshots() []reports.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.calls)
}

type fakePersister struct {
	mu    sync.Mutex
	saved []reports.Snapshot
	err   error
}

func (p *fakePersister) Save(ctx context.Context, snap reports.Snapshot) (reports.Ack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return reports.Ack{}, p.err
	}
	p.saved = append(p.saved, snap)
	return reports.Ack{ReportID: snap.ReportID, SavedAt: time.Now()}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []reports.Event
}

func (r *recorder) Notify(e reports.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []reports.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reports.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) last() reports.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) count(t reports.EventType) int {
	n := 0
	for _, got := range r.types() {
		if got == t {
			n++
		}
	}
	return n
}

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newEditor(t *testing.T, gw *fakeGateway, ps *fakePersister, rec *recorder) *reports.Editor {
	t.Helper()
	e, err := reports.NewEditor(reports.Config{
		Gateway:   gw,
		Persister: ps,
		Sink:      rec,
		Clock:     func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("NewEditor() error = %v", err)
	}
	return e
}

func wait[T any](t *testing.T, task *reports.Task[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := task.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("task did not resolve")
	}
	return v, err
}

func TestNewEditor_RequiresCollaborators(t *testing.T) {
	if _, err := reports.NewEditor(reports.Config{Persister: &fakePersister{}}); err == nil {
		t.Error("NewEditor() without gateway error = nil, want error")
	}
	if _, err := reports.NewEditor(reports.Config{Gateway: &fakeGateway{}}); err == nil {
		t.Error("NewEditor() without persister error = nil, want error")
	}
}

func TestNewEditor_Defaults(t *testing.T) {
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, &recorder{})

	if e.ID() == uuid.Nil {
		t.Error("ID() = nil uuid, want generated id")
	}
	if got := e.State(); got != reports.StateIdle {
		t.Errorf("State() = %q, want %q", got, reports.StateIdle)
	}
	if got := e.Options(); got != reports.DefaultOptions("") {
		t.Errorf("Options() = %+v, want defaults", got)
	}
	if got := e.Metadata().Title; got != reports.DefaultTitle {
		t.Errorf("Title = %q, want %q", got, reports.DefaultTitle)
	}
}

func TestEditor_AddPhotoDefaults(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)

	p, err := e.AddPhoto(photos.Draft{URL: "storage://a.jpg"})
	if err != nil {
		t.Fatalf("AddPhoto() error = %v", err)
	}

	if p.ID != 1 {
		t.Errorf("ID = %d, want 1", p.ID)
	}
	if p.Caption != "" || p.Location != "" {
		t.Errorf("caption/location = %q/%q, want empty", p.Caption, p.Location)
	}
	if got := p.Date.String(); got != "2024-03-15" {
		t.Errorf("Date = %q, want 2024-03-15", got)
	}

	ev := rec.last()
	if ev.Type != reports.EventPhotoAdded || ev.PhotoID != 1 {
		t.Errorf("event = %s/%d, want photo_added/1", ev.Type, ev.PhotoID)
	}
	if ev.ReportID != e.ID() {
		t.Errorf("event ReportID = %s, want %s", ev.ReportID, e.ID())
	}
}

func TestEditor_DeleteUnknownStillNotifies(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)

	_, ok, err := e.DeletePhoto(99)
	if err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if ok {
		t.Error("DeletePhoto() ok = true, want false")
	}
	if got := rec.types(); !slices.Equal(got, []reports.EventType{reports.EventPhotoRemoved}) {
		t.Errorf("events = %v, want [photo_removed]", got)
	}
	if got := e.State(); got != reports.StateIdle {
		t.Errorf("State() = %q, want idle after no-op delete", got)
	}
}

func TestEditor_ReorderAtBoundaryIsSilent(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{Caption: "A"})
	e.AddPhoto(photos.Draft{Caption: "B"})

	moved, err := e.Reorder(1, photos.Up)
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if moved {
		t.Error("Reorder(first, up) = true, want false")
	}
	if n := rec.count(reports.EventPhotoReordered); n != 0 {
		t.Errorf("photo_reordered events = %d, want 0", n)
	}

	if moved, _ := e.Reorder(1, photos.Down); !moved {
		t.Error("Reorder(first, down) = false, want true")
	}
	if n := rec.count(reports.EventPhotoReordered); n != 1 {
		t.Errorf("photo_reordered events = %d, want 1", n)
	}
}

func TestEditor_UpdatePhoto(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{})

	ok, err := e.UpdatePhoto(1, photos.FieldCaption, "Fachada")
	if err != nil || !ok {
		t.Fatalf("UpdatePhoto() = %v, %v; want true, nil", ok, err)
	}
	if ev := rec.last(); ev.Type != reports.EventPhotoUpdated || ev.Photo.Caption != "Fachada" {
		t.Errorf("event = %s caption %q, want photo_updated Fachada", ev.Type, ev.Photo.Caption)
	}

	if _, err := e.UpdatePhoto(1, photos.FieldDate, "15/03/2024"); !errors.Is(err, photos.ErrInvalidDate) {
		t.Errorf("UpdatePhoto(bad date) error = %v, want ErrInvalidDate", err)
	}

	ok, err = e.UpdatePhoto(42, photos.FieldCaption, "x")
	if err != nil || ok {
		t.Errorf("UpdatePhoto(unknown) = %v, %v; want false, nil", ok, err)
	}
}

func TestEditor_InvalidOptionRetainsPrior(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)

	if err := e.UpdateOption(reports.OptionPageSize, "Letter"); err != nil {
		t.Fatalf("UpdateOption(Letter) error = %v", err)
	}

	err := e.UpdateOption(reports.OptionPageSize, "Tabloid")
	if !errors.Is(err, reports.ErrInvalidOption) {
		t.Fatalf("UpdateOption(Tabloid) error = %v, want ErrInvalidOption", err)
	}

	if got := e.Options().PageSize; got != reports.PageLetter {
		t.Errorf("PageSize = %q, want %q", got, reports.PageLetter)
	}

	ev := rec.last()
	if ev.Type != reports.EventOptionInvalid {
		t.Errorf("last event = %q, want %q", ev.Type, reports.EventOptionInvalid)
	}
	if !errors.Is(ev.Err, reports.ErrInvalidOption) {
		t.Errorf("event Err = %v, want ErrInvalidOption", ev.Err)
	}
	if ev.Value != "Tabloid" {
		t.Errorf("event Value = %q, want Tabloid", ev.Value)
	}
}

func TestEditor_EndToEndExport(t *testing.T) {
	gw := &fakeGateway{}
	rec := &recorder{}
	e := newEditor(t, gw, &fakePersister{}, rec)

	for _, c := range []string{"A", "B", "C"} {
		e.AddPhoto(photos.Draft{Caption: c})
	}
	e.Reorder(2, photos.Up)
	e.DeletePhoto(1)
	if err := e.UpdateOption(reports.OptionFooterText, "X"); err != nil {
		t.Fatalf("UpdateOption() error = %v", err)
	}

	artifact, err := wait(t, e.RequestExport(context.Background()))
	if err != nil {
		t.Fatalf("RequestExport() error = %v", err)
	}
	if artifact.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", artifact.PageCount)
	}

	calls := gw.snapshots()
	if len(calls) != 1 {
		t.Fatalf("gateway calls = %d, want 1", len(calls))
	}
	snap := calls[0]

	var ids []int
	var captions []string
	for _, p := range snap.Photos {
		ids = append(ids, p.ID)
		captions = append(captions, p.Caption)
	}
	if !slices.Equal(ids, []int{2, 3}) {
		t.Errorf("ids = %v, want [2 3]", ids)
	}
	if !slices.Equal(captions, []string{"B", "C"}) {
		t.Errorf("captions = %v, want [B C]", captions)
	}

	want := reports.Options{PageSize: reports.PageA4, Orientation: reports.Portrait, FooterText: "X"}
	if snap.Options != want {
		t.Errorf("options = %+v, want %+v", snap.Options, want)
	}

	if n := rec.count(reports.EventExportSucceeded); n != 1 {
		t.Errorf("export_succeeded events = %d, want 1", n)
	}
	if ev := rec.last(); ev.Artifact == nil || ev.Artifact.ID != artifact.ID {
		t.Error("export_succeeded event does not carry the artifact")
	}
}

func TestEditor_ExportSnapshotIsolation(t *testing.T) {
	gw := &fakeGateway{release: make(chan struct{})}
	e := newEditor(t, gw, &fakePersister{}, &recorder{})
	e.AddPhoto(photos.Draft{Caption: "A"})
	e.AddPhoto(photos.Draft{Caption: "B"})

	task := e.RequestExport(context.Background())

	e.UpdatePhoto(1, photos.FieldCaption, "changed")
	e.AddPhoto(photos.Draft{Caption: "C"})
	e.Reorder(2, photos.Up)
	e.UpdateMetadata(reports.MetadataTitle, "Outro título")

	close(gw.release)
	if _, err := wait(t, task); err != nil {
		t.Fatalf("RequestExport() error = %v", err)
	}

	snap := gw.snapshots()[0]
	if len(snap.Photos) != 2 {
		t.Fatalf("snapshot photos = %d, want 2", len(snap.Photos))
	}
	if snap.Photos[0].ID != 1 || snap.Photos[0].Caption != "A" {
		t.Errorf("first photo = %d/%q, want 1/A", snap.Photos[0].ID, snap.Photos[0].Caption)
	}
	if snap.Metadata.Title != reports.DefaultTitle {
		t.Errorf("snapshot title = %q, want %q", snap.Metadata.Title, reports.DefaultTitle)
	}
}

func TestEditor_StateTransitions(t *testing.T) {
	gw := &fakeGateway{release: make(chan struct{})}
	e := newEditor(t, gw, &fakePersister{}, &recorder{})

	e.AddPhoto(photos.Draft{})
	if got := e.State(); got != reports.StateEditing {
		t.Fatalf("State() after add = %q, want editing", got)
	}

	task := e.RequestExport(context.Background())
	if got := e.State(); got != reports.StateExporting {
		t.Errorf("State() during export = %q, want exporting", got)
	}

	if _, err := e.AddPhoto(photos.Draft{}); err != nil {
		t.Errorf("AddPhoto() during export error = %v", err)
	}

	close(gw.release)
	wait(t, task)

	if got := e.State(); got != reports.StateEditing {
		t.Errorf("State() after export of dirty report = %q, want editing", got)
	}

	if _, err := wait(t, e.Save(context.Background())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := e.State(); got != reports.StateIdle {
		t.Errorf("State() after save = %q, want idle", got)
	}
	if e.Dirty() {
		t.Error("Dirty() after save = true, want false")
	}

	wait(t, e.RequestExport(context.Background()))
	if got := e.State(); got != reports.StateIdle {
		t.Errorf("State() after export of clean report = %q, want idle", got)
	}
}

func TestEditor_OverlappingExportsAreIndependent(t *testing.T) {
	gw := &fakeGateway{release: make(chan struct{})}
	rec := &recorder{}
	e := newEditor(t, gw, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{Caption: "A"})

	first := e.RequestExport(context.Background())
	e.AddPhoto(photos.Draft{Caption: "B"})
	second := e.RequestExport(context.Background())

	if got := e.InFlight(); got != 2 {
		t.Errorf("InFlight() = %d, want 2", got)
	}

	close(gw.release)
	a1, err1 := wait(t, first)
	a2, err2 := wait(t, second)
	if err1 != nil || err2 != nil {
		t.Fatalf("exports failed: %v, %v", err1, err2)
	}

	if a1.PageCount != 1 || a2.PageCount != 2 {
		t.Errorf("page counts = %d, %d; want 1, 2", a1.PageCount, a2.PageCount)
	}
	if n := len(gw.snapshots()); n != 2 {
		t.Errorf("gateway calls = %d, want 2", n)
	}
	if n := rec.count(reports.EventExportSucceeded); n != 2 {
		t.Errorf("export_succeeded events = %d, want 2", n)
	}
	if got := e.InFlight(); got != 0 {
		t.Errorf("InFlight() = %d, want 0", got)
	}
}

func TestEditor_ExportFailure(t *testing.T) {
	gw := &fakeGateway{err: reports.ErrExportTimeout}
	rec := &recorder{}
	e := newEditor(t, gw, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{})

	_, err := wait(t, e.RequestExport(context.Background()))
	if !errors.Is(err, reports.ErrExportTimeout) {
		t.Fatalf("RequestExport() error = %v, want ErrExportTimeout", err)
	}

	ev := rec.last()
	if ev.Type != reports.EventExportFailed {
		t.Fatalf("last event = %q, want export_failed", ev.Type)
	}
	if ev.Kind != reports.KindTimeout {
		t.Errorf("Kind = %q, want %q", ev.Kind, reports.KindTimeout)
	}
	if ev.Message != reports.ErrExportTimeout.Error() {
		t.Errorf("Message = %q, want %q", ev.Message, reports.ErrExportTimeout.Error())
	}
	if got := e.State(); got != reports.StateEditing {
		t.Errorf("State() = %q, want editing", got)
	}
}

func TestEditor_SaveFailureWrapsPersist(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{err: errors.New("db down")}, rec)
	e.AddPhoto(photos.Draft{})

	_, err := wait(t, e.Save(context.Background()))
	if !errors.Is(err, reports.ErrPersist) {
		t.Fatalf("Save() error = %v, want ErrPersist", err)
	}
	if ev := rec.last(); ev.Type != reports.EventSaveFailed {
		t.Errorf("last event = %q, want save_failed", ev.Type)
	}
	if !e.Dirty() {
		t.Error("Dirty() after failed save = false, want true")
	}
}

func TestEditor_SaveKeepsLaterEditsDirty(t *testing.T) {
	ps := &fakePersister{}
	e := newEditor(t, &fakeGateway{}, ps, &recorder{})
	e.AddPhoto(photos.Draft{})

	task := e.Save(context.Background())
	wait(t, task)
	e.AddPhoto(photos.Draft{})

	if !e.Dirty() {
		t.Error("Dirty() after post-save edit = false, want true")
	}
	if got := len(ps.saved[0].Photos); got != 1 {
		t.Errorf("saved photos = %d, want 1", got)
	}
}

func TestEditor_CloseSuppressesLateNotifications(t *testing.T) {
	gw := &fakeGateway{release: make(chan struct{})}
	rec := &recorder{}
	e := newEditor(t, gw, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{})

	task := e.RequestExport(context.Background())
	e.Close()
	close(gw.release)

	if _, err := wait(t, task); err != nil {
		t.Errorf("task error = %v, want nil", err)
	}
	if n := rec.count(reports.EventExportSucceeded) + rec.count(reports.EventExportFailed); n != 0 {
		t.Errorf("terminal events after Close = %d, want 0", n)
	}

	if _, err := e.AddPhoto(photos.Draft{}); !errors.Is(err, reports.ErrClosed) {
		t.Errorf("AddPhoto() after Close error = %v, want ErrClosed", err)
	}
	if _, err := wait(t, e.RequestExport(context.Background())); !errors.Is(err, reports.ErrClosed) {
		t.Errorf("RequestExport() after Close error = %v, want ErrClosed", err)
	}
}

func TestEditor_Load(t *testing.T) {
	rec := &recorder{}
	e := newEditor(t, &fakeGateway{}, &fakePersister{}, rec)
	e.AddPhoto(photos.Draft{})

	saved := uuid.New()
	ref := "LAU-2023-001"
	err := e.Load(reports.Snapshot{
		ReportID: saved,
		Metadata: reports.Metadata{ProcessRef: "0001234-56.2023.8.26.0100", RelatedReportRef: &ref, Title: "Vistoria"},
		Photos: []photos.Record{
			{ID: 4, Caption: "Sala"},
			{ID: 7, Caption: "Cozinha"},
		},
		Options: reports.Options{PageSize: "Legal", Orientation: "Landscape"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if e.ID() != saved {
		t.Errorf("ID() = %s, want %s", e.ID(), saved)
	}
	if e.Dirty() {
		t.Error("Dirty() after Load = true, want false")
	}
	if got := e.Options().PageSize; got != reports.PageLegal {
		t.Errorf("PageSize = %q, want legal", got)
	}
	if rec.last().Type != reports.EventReportLoaded {
		t.Errorf("last event = %q, want report_loaded", rec.last().Type)
	}

	p, _ := e.AddPhoto(photos.Draft{})
	if p.ID != 8 {
		t.Errorf("AddPhoto() after Load id = %d, want 8", p.ID)
	}

	if err := e.Load(reports.Snapshot{Options: reports.Options{PageSize: "tabloid", Orientation: "portrait"}}); !errors.Is(err, reports.ErrInvalidOption) {
		t.Errorf("Load(bad options) error = %v, want ErrInvalidOption", err)
	}
}
