package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	DefaultPort      = 7212
	listenBacklog    = 3
	handshakeTimeout = 10 * time.Second
	maxMessageSize   = 64 * 1024
)

// Presence publishes a tab count to the presence service.
type Presence interface {
	Update(ctx context.Context, count uint32) error
}

// Server accepts agent connections and forwards their tab counts to Presence.
type Server struct {
	Presence Presence
	State    *State

	log *slog.Logger
	mux *http.ServeMux
}

func NewServer(p Presence, state *State, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		Presence: p,
		State:    state,
		log:      log,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("/", s.handleAgent)
	return s
}

// Serve accepts connections on ln until ctx is cancelled, handling each one
// on its own goroutine. An accept error is returned as fatal; cancellation
// returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.log.Info("waiting for connections", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn runs the HTTP upgrade and the agent session for one raw connection.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	s.log.Debug("accepted connection", "peer", conn.RemoteAddr().String())

	// net/http answers malformed requests itself without calling the handler.
	var reached atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached.Store(true)
		s.mux.ServeHTTP(w, r)
	})

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: handshakeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelDebug),
	}
	srv.SetKeepAlivesEnabled(false)
	// Serve returns once the single connection is closed.
	srv.Serve(newConnListener(conn))

	if !reached.Load() && ctx.Err() == nil {
		err := &ConnError{Stage: StageAccepting, Err: errors.New("no valid http upgrade request")}
		s.log.Error("error handling connection", "peer", conn.RemoteAddr().String(), "stage", string(err.Stage), "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.State.Snapshot())
}
