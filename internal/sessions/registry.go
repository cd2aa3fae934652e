package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/perito-hub/internal/archive"
	"github.com/JaimeStill/perito-hub/internal/laudos"
	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/lifecycle"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/google/uuid"
)

// System tracks the open editing sessions.
type System interface {
	Handler() *Handler
	Open(ctx context.Context, cmd OpenCommand) (*Session, error)
	Get(id uuid.UUID) (*Session, error)
	Close(ctx context.Context, id uuid.UUID) error
	List() []Info
	// Sweep closes sessions idle since before now minus the idle timeout
	// and returns how many it closed.
	Sweep(ctx context.Context, now time.Time) int
	Start(lc *lifecycle.Coordinator) error
}

// Catalog loads saved reports so a session can resume one.
type Catalog interface {
	Archive
	Find(ctx context.Context, id uuid.UUID) (*archive.Report, error)
}

// Laudos resolves the laudo a photographic report is attached to.
type Laudos interface {
	Find(ctx context.Context, id uuid.UUID) (*laudos.Laudo, error)
}

// OpenCommand starts a session. With ReportID set the saved report is
// loaded and the other fields are ignored.
type OpenCommand struct {
	ReportID         *uuid.UUID    `json:"report_id,omitempty"`
	ProcessRef       string        `json:"process_ref"`
	RelatedReportRef *string       `json:"related_report_ref,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Options          *OptionsPatch `json:"options,omitempty"`
}

// OptionsPatch overrides the default export options field by field.
type OptionsPatch struct {
	PageSize    string  `json:"page_size,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	FooterText  *string `json:"footer_text,omitempty"`
}

// Apply overlays the set fields onto base.
func (p OptionsPatch) Apply(base reports.Options) (reports.Options, error) {
	if p.PageSize != "" {
		if err := base.Set(reports.OptionPageSize, p.PageSize); err != nil {
			return base, err
		}
	}
	if p.Orientation != "" {
		if err := base.Set(reports.OptionOrientation, p.Orientation); err != nil {
			return base, err
		}
	}
	if p.FooterText != nil {
		base.FooterText = *p.FooterText
	}
	return base, nil
}

type registry struct {
	gateway  reports.Gateway
	catalog  Catalog
	laudos   Laudos
	storage  storage.System
	logger   *slog.Logger
	settings Settings
	clock    func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func New(gateway reports.Gateway, catalog Catalog, laudoCatalog Laudos, store storage.System, logger *slog.Logger, settings Settings) System {
	return &registry{
		gateway:  gateway,
		catalog:  catalog,
		laudos:   laudoCatalog,
		storage:  store,
		logger:   logger.With("system", "sessions"),
		settings: settings.withDefaults(),
		clock:    time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *registry) Handler() *Handler {
	return NewHandler(r, r.logger, r.settings)
}

func (r *registry) Open(ctx context.Context, cmd OpenCommand) (*Session, error) {
	var saved *archive.Report
	if cmd.ReportID != nil {
		rep, err := r.catalog.Find(ctx, *cmd.ReportID)
		if err != nil {
			return nil, err
		}
		saved = rep
	} else if cmd.RelatedReportRef != nil {
		ref, process, err := resolveLaudo(ctx, r.laudos, *cmd.RelatedReportRef, cmd.ProcessRef)
		if err != nil {
			return nil, err
		}
		cmd.RelatedReportRef = ref
		cmd.ProcessRef = process
	}

	now := r.clock()
	id := uuid.New()
	logger := r.logger.With("session_id", id)

	s := &Session{
		id:          id,
		storage:     r.storage,
		archive:     r.catalog,
		laudos:      r.laudos,
		logger:      logger,
		clock:       r.clock,
		created:     now,
		lastActive:  now,
		owned:       make(map[string]bool),
		subscribers: make(map[*reports.Stream]struct{}),
		buffer:      r.settings.StreamBuffer,
	}

	cfg := reports.Config{
		Gateway:   r.gateway,
		Persister: r.catalog,
		Sink:      reports.NewMultiSink(reports.NewLogSink(logger), reports.SinkFunc(s.broadcast)),
		Logger:    logger,
		Clock:     r.clock,
		Metadata: reports.Metadata{
			ProcessRef:       cmd.ProcessRef,
			RelatedReportRef: cmd.RelatedReportRef,
			Title:            cmd.Title,
			Description:      cmd.Description,
		},
		Options:  reports.DefaultOptions(r.settings.DefaultFooter),
		IDPolicy: r.settings.IDPolicy,
	}
	if cmd.Options != nil {
		options, err := cmd.Options.Apply(cfg.Options)
		if err != nil {
			return nil, err
		}
		cfg.Options = options
	}

	editor, err := reports.NewEditor(cfg)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		if err := editor.Load(saved.Snapshot()); err != nil {
			return nil, fmt.Errorf("load report %s: %w", saved.ID, err)
		}
	}
	s.editor = editor

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("session opened", "session_id", id, "report_id", editor.ID(), "resumed", saved != nil)
	return s, nil
}

// resolveLaudo checks that ref names a registered laudo of the report's case.
// It returns the canonical reference, nil for a blank ref, and the process
// number, taken from the laudo when the report names none.
func resolveLaudo(ctx context.Context, finder Laudos, ref, processRef string) (*string, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, processRef, nil
	}

	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %q is not a laudo id", ErrUnknownLaudo, ref)
	}
	l, err := finder.Find(ctx, id)
	if err != nil {
		if errors.Is(err, laudos.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", ErrUnknownLaudo, id)
		}
		return nil, "", err
	}

	processRef = strings.TrimSpace(processRef)
	if processRef == "" {
		processRef = l.ProcessNumber
	} else if processRef != l.ProcessNumber {
		return nil, "", fmt.Errorf("%w: laudo %s belongs to process %s", ErrUnknownLaudo, id, l.ProcessNumber)
	}

	canonical := id.String()
	return &canonical, processRef, nil
}

func (r *registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch()
	return s, nil
}

// Close disposes a session. Closing an unknown session is not an error.
func (r *registry) Close(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	s.close(ctx)
	r.logger.Info("session closed", "session_id", id)
	return nil
}

// List returns every open session, most recently active first.
func (r *registry) List() []Info {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	infos := make([]Info, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info(false)
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return b.LastActive.Compare(a.LastActive)
	})
	return infos
}

func (r *registry) Sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-r.settings.IdleTimeout)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idle(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		if s.editor.Dirty() {
			r.logger.Warn("expiring session with unsaved changes", "session_id", s.id, "report_id", s.editor.ID())
		}
		s.close(ctx)
	}
	if len(expired) > 0 {
		r.logger.Info("idle sessions expired", "count", len(expired))
	}
	return len(expired)
}

// Start runs the idle sweeper until shutdown, then closes every session.
func (r *registry) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		ticker := time.NewTicker(r.settings.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				r.closeAll()
				return
			case now := <-ticker.C:
				r.Sweep(context.Background(), now)
			}
		}
	})
	return nil
}

func (r *registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close(context.Background())
	}
	r.logger.Info("sessions closed", "count", len(sessions))
}
