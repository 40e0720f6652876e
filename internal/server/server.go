// Package server serves the browser viewer bundle and the model files.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

func init() {
	_ = mime.AddExtensionType(".glb", "model/gltf-binary")
	_ = mime.AddExtensionType(".gltf", "model/gltf+json")
}

// shutdownGrace bounds how long in-flight requests may run after shutdown starts.
const shutdownGrace = 5 * time.Second

// Config says where the static files live.
type Config struct {
	// PublicDir holds index.html, pose-system.html, debug.html and the scripts.
	PublicDir string
	// ModelsDir is served under /models.
	ModelsDir string
}

// Handler returns the route table:
//
//	GET /             public/index.html
//	GET /pose-system  public/pose-system.html
//	GET /debug        public/debug.html
//	GET /models/...   files under ModelsDir
//	GET /...          files under PublicDir
func Handler(cfg Config, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", page(cfg.PublicDir, "index.html"))
	mux.Handle("GET /pose-system", page(cfg.PublicDir, "pose-system.html"))
	mux.Handle("GET /debug", page(cfg.PublicDir, "debug.html"))
	mux.Handle("GET /models/", http.StripPrefix("/models", http.FileServer(staticFS{http.Dir(cfg.ModelsDir)})))
	mux.Handle("GET /", http.FileServer(staticFS{http.Dir(cfg.PublicDir)}))
	if log == nil {
		return mux
	}
	return logRequests(mux, log)
}

// staticFS hides dotfiles and dot directories and refuses to list directories without an index.html.
type staticFS struct {
	root http.FileSystem
}

func (s staticFS) Open(name string) (http.File, error) {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return nil, fs.ErrNotExist
		}
	}
	f, err := s.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := s.root.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, fs.ErrNotExist
		}
		index.Close()
	}
	return f, nil
}

func page(dir, name string) http.Handler {
	file := filepath.Join(dir, name)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, file)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status,
			"took", time.Since(start).Round(time.Microsecond))
	})
}

// Server is a static file server with graceful shutdown.
type Server struct {
	http *http.Server
	log  *slog.Logger
}

// New returns a server for h listening on addr (":3000" style).
func New(addr string, h http.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		http: &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second},
		log:  log,
	}
}

// Run listens on the configured address and serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("server listening", "url", "http://"+displayAddr(ln.Addr()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.log.Info("server shutting down")
		return s.http.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func displayAddr(a net.Addr) string {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return a.String()
	}
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return tcp.String()
}

// Addr formats a port as a listen address.
func Addr(port string) string {
	return ":" + port
}
