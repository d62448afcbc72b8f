package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/service"
)

// Server wraps the HTTP server for the API and the board page.
type Server struct {
	httpServer *http.Server
	watcher    *FileWatcher
	wsHub      *WebSocketHub
	logger     *log.Logger
}

// NewServer creates a server for handler on port. When watchDir is set, the
// directory is watched and values written there by other processes are
// reloaded into the services.
func NewServer(handler *Handler, port int, watchDir string, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub(logger, handler.initialMessages)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)
	handler.board.Subscribe(wsHub.BroadcastBoard)
	handler.theme.Subscribe(wsHub.BroadcastTheme)

	var watcher *FileWatcher
	if watchDir != "" {
		var err error
		watcher, err = NewFileWatcher(watchDir, logger)
		if err != nil {
			logger.Warn("file watching disabled", "err", err)
		} else {
			watcher.Subscribe(&storeReloader{board: handler.board, theme: handler.theme, logger: logger})
		}
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      Logging(logger, Cors(mux)),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher: watcher,
		wsHub:   wsHub,
		logger:  logger,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			s.logger.Warn("failed to start file watcher", "err", err)
		}
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	// Hijacked connections aren't tracked by http.Server.
	s.wsHub.Close()

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// storeReloader pulls externally written values back into the services.
type storeReloader struct {
	board  *service.BoardService
	theme  *service.ThemeService
	logger *log.Logger
}

func (r *storeReloader) OnFileChange(change FileChange) {
	ctx := context.Background()

	switch change.Key {
	case service.BoardKey:
		if _, err := r.board.Reload(ctx); err != nil {
			r.logger.Warn("board reload failed", "err", err)
		}
	case service.ThemeKey:
		if _, err := r.theme.Reload(ctx); err != nil {
			r.logger.Warn("theme reload failed", "err", err)
		}
	}
}
