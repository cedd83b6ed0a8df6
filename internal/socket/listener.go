package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Event is one parsed extension message delivered to the orchestrator.
type Event struct {
	Envelope Envelope
}

// Listener accepts a single expected extension WebSocket connection and
// forwards parsed envelopes to a bounded channel, per spec.md §6.
// Malformed JSON is logged and dropped; the connection loop continues.
type Listener struct {
	port   int
	logger *log.Logger
	events chan Event
	done   chan struct{}
	closed sync.Once
	server *http.Server
}

// New builds a listener bound to port, with a channel buffered to
// eventBuffer entries.
func New(port int, eventBuffer int, logger *log.Logger) *Listener {
	return &Listener{
		port:   port,
		logger: logger,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Events returns the channel the orchestrator selects on.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Run starts the HTTP server hosting the websocket upgrade endpoint and
// blocks until ctx is cancelled or the server fails. On ctx cancellation
// it shuts the server down gracefully. Shutdown signals in-flight
// handleUpgrade goroutines via done rather than closing events, so a
// connection mid-send can never race a close.
func (l *Listener) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleUpgrade)

	l.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		l.closed.Do(func() { close(l.done) })
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return l.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		l.closed.Do(func() { close(l.done) })
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("extension socket server: %w", err)
		}
		return nil
	}
}

func (l *Listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.With("method", r.Method, "path", r.URL.Path, "ip", r.RemoteAddr, "err", err).
			Error("failed to upgrade extension socket connection")
		return
	}
	defer conn.Close()

	l.logger.With("method", r.Method, "path", r.URL.Path, "ip", r.RemoteAddr, "duration", time.Since(start)).
		Info("extension connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			l.logger.With("err", err).Info("extension socket connection closed")
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			l.logger.With("err", err).Warn("dropping malformed extension message")
			continue
		}

		select {
		case l.events <- Event{Envelope: env}:
		case <-l.done:
			return
		}
	}
}
