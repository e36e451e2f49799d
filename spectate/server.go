package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"metal-snake/game"
	"metal-snake/game/manager"
	"metal-snake/game/types"
)

// Message types on the wire
const (
	TypeSnapshot  = "snapshot"
	TypeGameOver  = "game_over"
	TypeDirection = "direction"
	TypeRestart   = "restart"
	TypePause     = "pause"
	TypeError     = "error"
)

// Game is what spectators can see and do.
type Game interface {
	Snapshot() game.Snapshot
	SetDirection(d types.Direction) bool
	Restart() bool
	TogglePause() bool
}

// Message is the envelope for every WebSocket frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// GameOverData is the payload of a game_over message.
type GameOverData struct {
	Snapshot game.Snapshot      `json:"snapshot"`
	Record   manager.GameRecord `json:"record"`
}

// Server streams game snapshots to WebSocket spectators and serves the
// current state and score history over HTTP. It is a game observer.
type Server struct {
	g        Game
	stats    *manager.StateManager
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[*client]bool
}

func NewServer(g Game, stats *manager.StateManager) *Server {
	return &Server{
		g:     g,
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// any origin may watch
				return true
			},
		},
		log:     log.With().Str("component", "spectate").Logger(),
		clients: make(map[*client]bool),
	}
}

// Run serves until ctx is cancelled, then shuts down and drops every client.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Spectator server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectator server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeClients()
	if err != nil {
		return fmt.Errorf("spectator shutdown: %w", err)
	}
	s.log.Info().Msg("Spectator server stopped")
	return nil
}

func (s *Server) OnTick(snap game.Snapshot) {
	s.broadcast(TypeSnapshot, snap)
}

func (s *Server) OnGameOver(snap game.Snapshot, rec manager.GameRecord) {
	s.broadcast(TypeGameOver, GameOverData{Snapshot: snap, Record: rec})
}

// Clients is the number of connected spectators.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := newClient(conn, uuid.New().String(), s.log)
	if frame, err := encode(TypeSnapshot, s.g.Snapshot()); err == nil {
		c.queue(frame)
	}
	s.register(c)

	go c.writePump()
	go c.readPump(s)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = true
	n := len(s.clients)
	s.mu.Unlock()
	c.log.Info().Int("clients", n).Msg("Spectator connected")
}

// unregister closes the client's send queue exactly once.
func (s *Server) unregister(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	if ok {
		delete(s.clients, c)
		close(c.send)
	}
	n := len(s.clients)
	s.mu.Unlock()
	if ok {
		c.log.Info().Int("clients", n).Msg("Spectator disconnected")
	}
}

func (s *Server) closeClients() {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c.conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (s *Server) broadcast(msgType string, payload any) {
	frame, err := encode(msgType, payload)
	if err != nil {
		s.log.Err(err).Str("type", msgType).Msg("Encode broadcast")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if !c.queue(frame) {
			c.log.Debug().Str("type", msgType).Msg("Slow spectator, frame dropped")
		}
	}
}

// handleMessage applies one spectator command to the game.
func (s *Server) handleMessage(c *client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.reply(c, TypeError, "invalid message")
		return
	}

	switch msg.Type {
	case TypeDirection:
		var name string
		if err := json.Unmarshal(msg.Data, &name); err != nil {
			s.reply(c, TypeError, "direction needs a string")
			return
		}
		dir, err := types.ParseDirection(name)
		if err != nil {
			s.reply(c, TypeError, err.Error())
			return
		}
		s.g.SetDirection(dir)
	case TypeRestart:
		s.g.Restart()
	case TypePause:
		s.g.TogglePause()
	default:
		s.reply(c, TypeError, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (s *Server) reply(c *client, msgType string, payload any) {
	frame, err := encode(msgType, payload)
	if err != nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clients[c] {
		c.queue(frame)
	}
}

func encode(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Data: data})
}
