// Package relay provides a websocket relay for drixl messages. Agents
// connect with their id, send raw messages in either wire format, and the
// relay forwards each frame to the addressed agent. Messages are decoded
// only to read the envelope recipient; the raw bytes are forwarded
// untouched. There are no delivery guarantees: an unknown recipient is an
// error frame back to the sender, never a queue.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drixl/drixl-go/internal/protocol"
)

// wsConn wraps a websocket connection with a write lock.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// errorFrame is sent back to a sender when a frame cannot be relayed.
type errorFrame struct {
	Error string `json:"error"`
}

// Server is the relay HTTP server.
type Server struct {
	port     int
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*wsConn

	mux *http.ServeMux
	srv *http.Server
}

// NewServer creates a relay listening on the given port.
func NewServer(port int) *Server {
	s := &Server{
		port:  port,
		conns: make(map[string]*wsConn),
		mux:   http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Relay] Listening on :%d", s.port)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.mu.Lock()
	n := len(s.conns)
	s.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "agents": n})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agent")
	if agentID == "" {
		http.Error(w, "missing agent query parameter", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Relay] Upgrade failed for %s: %v", agentID, err)
		return
	}

	wc := &wsConn{conn: conn}
	s.mu.Lock()
	if old, ok := s.conns[agentID]; ok {
		old.conn.Close()
	}
	s.conns[agentID] = wc
	s.mu.Unlock()
	log.Printf("[Relay] Agent connected: %s", agentID)

	defer func() {
		s.mu.Lock()
		if s.conns[agentID] == wc {
			delete(s.conns, agentID)
		}
		s.mu.Unlock()
		conn.Close()
		log.Printf("[Relay] Agent disconnected: %s", agentID)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := s.route(agentID, wc, data); err != nil {
			frame, _ := json.Marshal(errorFrame{Error: err.Error()})
			wc.writeText(frame)
		}
	}
}

// route forwards a raw frame to its envelope recipient.
func (s *Server) route(senderID string, sender *wsConn, raw []byte) error {
	to, err := Recipient(string(raw))
	if err != nil {
		return err
	}

	s.mu.Lock()
	dest, ok := s.conns[to]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("agent %q not connected", to)
	}

	if err := dest.writeText(raw); err != nil {
		return fmt.Errorf("forward to %q: %w", to, err)
	}
	log.Printf("[Relay] %s -> %s (%d bytes)", senderID, to, len(raw))
	return nil
}

// Recipient decodes a raw message just far enough to return its envelope
// recipient. Both wire formats are accepted.
func Recipient(raw string) (string, error) {
	msg, err := protocol.Decode(raw, protocol.DecodeOptions{})
	if err != nil {
		return "", err
	}
	switch m := msg.(type) {
	case *protocol.CompactMessage:
		return m.To, nil
	case *protocol.StructuredMessage:
		return m.To, nil
	default:
		return "", protocol.ErrUnrecognizedFormat
	}
}
