// Package serve implements herbfmt's live preview server: a small chi
// router that renders a directory's templates through the core formatter
// and pushes reformatted output to connected browsers over a WebSocket
// whenever a watched file's mtime changes.
package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/tk0miya/herbfmt/config"
	"github.com/tk0miya/herbfmt/format"
	"github.com/tk0miya/herbfmt/parser"
)

// Server renders templates under Root through the formatter and streams
// reformatted output to WebSocket clients when a file changes on disk.
type Server struct {
	Root   string
	Config *config.Config
	Logger *slog.Logger
	Parser *parser.External

	upgrader websocket.Upgrader
}

// New returns a Server ready to have its Router mounted.
func New(root string, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Server{Root: root, Config: cfg, Logger: logger, Parser: parser.NewExternal()}
}

// Router builds the chi.Router exposing the preview endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/preview/*", s.handlePreview)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		http.Error(w, fmt.Sprintf("read %s: %v", s.Root, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	_ = json.NewEncoder(w).Encode(names)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	out, err := s.renderPath(rel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) renderPath(rel string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", full, err)
	}
	root, err := s.Parser.Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", full, err)
	}
	return format.Format(root, format.FormatContext{
		FilePath:      full,
		Source:        string(data),
		IndentWidth:   s.Config.IndentWidth,
		MaxLineLength: s.Config.MaxLineLength,
	}), nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("websocket upgrade", "error", err)
		return
	}
	connID := newConnID()
	logger := s.Logger.With("conn", connID)
	logger.Info("client connected")

	rel := r.URL.Query().Get("file")

	go s.pushLoop(conn, rel, logger)
}

func newConnID() string {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// pushLoop polls the watched file's mtime (no fsnotify dependency is
// wired in anywhere else in the corpus, so a plain poll avoids adding one)
// and pushes a freshly rendered payload to the connection whenever it
// changes. It returns when a write to the connection fails, so a closed
// connection is noticed only on the next push.
func (s *Server) pushLoop(conn *websocket.Conn, rel string, logger *slog.Logger) {
	defer conn.Close()

	var lastMod time.Time
	full := filepath.Join(s.Root, filepath.FromSlash(rel))

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if info.ModTime().Equal(lastMod) {
			continue
		}
		lastMod = info.ModTime()

		out, err := s.renderPath(rel)
		if err != nil {
			logger.Warn("render on change", "file", rel, "error", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
			logger.Info("client disconnected", "error", err)
			return
		}
	}
}
