package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docnav/internal/cache"
	"github.com/ziadkadry99/docnav/internal/docsindex"
	"github.com/ziadkadry99/docnav/internal/nav"
)

// BuildFunc loads the docs index and regenerates the site from it.
type BuildFunc func(ctx context.Context) (*docsindex.Index, error)

// ServerConfig holds dev server configuration.
type ServerConfig struct {
	Port      int
	OutputDir string // directory containing the generated site
	AllowAll  bool   // allow all CORS origins

	// IgnoreDirs are not watched for changes in addition to OutputDir, e.g.
	// the cache directory.
	IgnoreDirs []string
}

// Server serves a generated site, exposes the docs index and sidebar over
// a small JSON API, and tells connected browsers to reload after rebuilds.
type Server struct {
	cfg        ServerConfig
	build      BuildFunc
	nav        *nav.Renderer
	cache      *cache.DB
	reload     *reloadHub
	router     chi.Router
	httpServer *http.Server

	mu    sync.RWMutex
	index *docsindex.Index
}

// NewServer creates a dev server. cacheDB may be nil.
func NewServer(cfg ServerConfig, build BuildFunc, renderer *nav.Renderer, cacheDB *cache.DB) *Server {
	s := &Server{
		cfg:    cfg,
		build:  build,
		nav:    renderer,
		cache:  cacheDB,
		reload: newReloadHub(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/docs", s.handleDocs)
	r.Get("/api/nav", s.handleNav)
	r.Get("/api/build", s.handleBuild)
	r.Get("/ws/livereload", s.reload.handle)

	// Static files (must be registered after API routes).
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.OutputDir)))

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Index returns the docs index of the latest successful build.
func (s *Server) Index() *docsindex.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Rebuild regenerates the site, swaps in the new index and asks connected
// browsers to reload. On failure the previous index stays in place.
func (s *Server) Rebuild(ctx context.Context) error {
	ix, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.index = ix
	s.mu.Unlock()
	s.reload.broadcast("reload")
	return nil
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	ix := s.Index()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, "site not built yet")
		return
	}
	docs := ix.Docs
	if docs == nil {
		docs = nav.DocsTree{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleNav renders the sidebar fragment for ?doc=&section=.
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	ix := s.Index()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, "site not built yet")
		return
	}
	q := r.URL.Query()
	out, err := nav.RenderString(s.nav.Navigation(ix.Docs, q.Get("doc"), q.Get("section")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusNotFound, "build history disabled")
		return
	}
	b, err := s.cache.LastBuild(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "no builds recorded")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Watch rebuilds the site whenever a file below dir changes, until ctx is
// done. Bursts of events are coalesced.
func (s *Server) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	ignored := s.ignoredDirs()
	if err := addWatchDirs(watcher, dir, ignored); err != nil {
		return err
	}

	const debounce = 200 * time.Millisecond
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if underAny(ev.Name, ignored) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if err := addWatchDirs(watcher, ev.Name, ignored); err != nil {
						log.Printf("site: watching %s: %v", ev.Name, err)
					}
				}
			}
			if relevantChange(ev) {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("site: watcher: %v", err)
		case <-timer.C:
			start := time.Now()
			if err := s.Rebuild(ctx); err != nil {
				log.Printf("site: rebuild failed: %v", err)
				continue
			}
			log.Printf("site: rebuilt in %s", time.Since(start).Round(time.Millisecond))
		}
	}
}

// ignoredDirs returns the absolute directories whose changes never trigger
// a rebuild: the output directory, written by every rebuild, and IgnoreDirs.
func (s *Server) ignoredDirs() []string {
	var dirs []string
	for _, d := range append([]string{s.cfg.OutputDir}, s.cfg.IgnoreDirs...) {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		dirs = append(dirs, abs)
	}
	return dirs
}

// underAny reports whether p is one of dirs or lies below one of them.
func underAny(p string, dirs []string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addWatchDirs watches dir and every directory below it except hidden and
// ignored ones; fsnotify is not recursive.
func addWatchDirs(w *fsnotify.Watcher, dir string, ignored []string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && (strings.HasPrefix(d.Name(), ".") || underAny(p, ignored)) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func relevantChange(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".md" || ext == ".yml" || ext == ".yaml" || ext == ".json" || ext == ""
}

// Start listens on the configured port until ctx is done, then shuts the
// server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.reload.closeAll()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("docnav dev server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// reloadHub tracks live-reload websocket clients.
type reloadHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *reloadHub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("site: websocket upgrade: %v", err)
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Browsers never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("site: websocket read: %v", err)
			}
			return
		}
	}
}

func (h *reloadHub) broadcast(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			log.Printf("site: websocket write: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *reloadHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *reloadHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
	}
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
