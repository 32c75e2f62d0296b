package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nbxlive/resultboard/internal/cache"
	"github.com/nbxlive/resultboard/internal/metrics"
)

const (
	// shutdownTimeout bounds how long in-flight requests may run after the
	// start context is cancelled.
	shutdownTimeout = 5 * time.Second

	// DefaultTitle is used when no custom title is configured.
	DefaultTitle = "NBX Live Results"

	// DefaultTimeFormat renders the last-updated time as HH:MM:SS.
	DefaultTimeFormat = "15:04:05"

	// notUpdated replaces the timestamp until the first refresh is published.
	notUpdated = "Not yet updated"

	// templatePath is the page template inside the assets filesystem.
	templatePath = "assets/index.html.tmpl"
)

// Config holds the presentation and listener settings.
type Config struct {
	Host       string
	Port       int
	AdminPort  int // 0 disables the admin listener
	Title      string
	TimeFormat string
	SourceURL  string
}

// Server renders cache snapshots over HTTP.
type Server struct {
	store    cache.Store
	cfg      Config
	page     *template.Template
	recorder *metrics.Recorder
	state    func() string
	logger   *slog.Logger

	mu   sync.Mutex
	addr net.Addr
}

// pageData is the template model for one render.
type pageData struct {
	Title     string
	Updated   string
	SourceURL string
	Entries   []string
}

// NewServer creates a [Server] and parses the page template from assets.
//
// recorder and state feed the admin endpoints and may be nil. The server is
// not started until [Server.Start] is called.
func NewServer(st cache.Store, cfg Config, assets fs.FS, recorder *metrics.Recorder, state func() string, logger *slog.Logger) (*Server, error) {
	if assets == nil {
		return nil, fmt.Errorf("page assets are required")
	}
	page, err := template.ParseFS(assets, templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = DefaultTimeFormat
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		cfg:      cfg,
		page:     page,
		recorder: recorder,
		state:    state,
		logger:   logger,
	}, nil
}

// Handler returns the public route set.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// AdminHandler returns the operational route set.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return mux
}

// Start binds the listeners and serves in background goroutines.
//
// Start returns as soon as the listeners are bound; a bind failure is
// returned synchronously. Serving stops with a graceful shutdown when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := listen(s.cfg.Host, s.cfg.Port)
	if err != nil {
		return err
	}

	var adminLn net.Listener
	if s.cfg.AdminPort > 0 {
		adminLn, err = listen(s.cfg.Host, s.cfg.AdminPort)
		if err != nil {
			_ = ln.Close()
			return err
		}
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.serve(ctx, ln, s.Handler(), "public")
	if adminLn != nil {
		s.serve(ctx, adminLn, s.AdminHandler(), "admin")
	}
	return nil
}

// Addr returns the public listener's address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func listen(host string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind to %s: %w", addr, err)
	}
	return ln, nil
}

func (s *Server) serve(ctx context.Context, ln net.Listener, h http.Handler, name string) {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		s.logger.Info("http listener started", "listener", name, "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "listener", name, "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "listener", name, "error", err)
		}
	}()
}

// handleIndex renders the latest snapshot as the results page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	data := pageData{
		Title:     s.cfg.Title,
		Updated:   notUpdated,
		SourceURL: s.cfg.SourceURL,
		Entries:   snap.Entries,
	}
	if snap.Updated() {
		data.Updated = snap.UpdatedAt.Format(s.cfg.TimeFormat)
	}

	// render into a buffer so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render results page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("failed to write results page", "error", err)
	}
}

// health is the /healthz response body.
type health struct {
	Status    string     `json:"status"`
	State     string     `json:"state,omitempty"`
	UpdatedAt *time.Time `json:"updated_at"`
	Entries   int        `json:"entries"`
	Failed    bool       `json:"failed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	body := health{
		Status:  "ok",
		Entries: len(snap.Entries),
		Failed:  snap.Failed,
	}
	if snap.Updated() {
		at := snap.UpdatedAt.UTC()
		body.UpdatedAt = &at
	} else {
		body.Entries = 0
	}
	if s.state != nil {
		body.State = s.state()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode health response", "error", err)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", metrics.ContentType())
	if err := s.recorder.WriteText(w); err != nil {
		s.logger.Error("failed to write metrics", "error", err)
	}
}
