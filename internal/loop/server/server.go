// Package server is the score hub shared by all SSH sessions. Every session
// plays its own game; the hub only tracks who is online and the best results.
package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/loop/config"
)

// Hub is the interface clients use to talk to the score hub.
// It decouples the Client from the concrete Server, so local play can run
// without one and tests can substitute a fake.
type Hub interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SubmitResult(clientID int, r game.Result)
	GetSnapshot() *Snapshot
}

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the client
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type  ClientEventType
	Entry Entry // For high score events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventHighScore ClientEventType = iota
	EventServerShutdown
)

type submission struct {
	clientID int
	result   game.Result
}

// Server owns the leaderboard and the set of connected clients.
type Server struct {
	board        *Leaderboard
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	resultCh     chan submission
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
	logger       *log.Logger
	now          func() time.Time
}

// Compile-time check that Server implements Hub.
var _ Hub = (*Server)(nil)

// NewServer creates a hub. A nil logger uses the default logger.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		board:        NewLeaderboard(config.LeaderboardSize),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		resultCh:     make(chan submission, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		logger:       logger,
		now:          time.Now,
	}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Run processes registrations and results until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.HubTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		changed := s.processRegistrations()
		if s.collectResults() {
			changed = true
		}
		if changed {
			s.createSnapshot()
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. The caller should cancel the hub context after
// Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(config.ShutdownPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.clientCount())
			return
		case <-ticker.C:
			if s.clientCount() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SubmitResult records a finished game.
func (s *Server) SubmitResult(clientID int, r game.Result) {
	select {
	case s.resultCh <- submission{clientID: clientID, result: r}:
	default:
		s.logger.Warn("result dropped, hub busy", "client", clientID)
	}
}

// GetSnapshot returns the current hub snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// broadcast sends an event to every client without blocking.
func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() (changed bool) {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "client", handle.ID, "user", handle.Username)
			changed = true
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				changed = true
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "client", clientID)
		default:
			return changed
		}
	}
}

// collectResults files pending results on the leaderboard and announces new bests.
func (s *Server) collectResults() (changed bool) {
	for {
		select {
		case sub := <-s.resultCh:
			s.mu.RLock()
			handle, ok := s.clients[sub.clientID]
			s.mu.RUnlock()
			username := "anonymous"
			if ok && handle.Username != "" {
				username = handle.Username
			}

			entry := entryFor(username, sub.result, s.now())
			rank := s.board.Add(entry)
			s.logger.Info("game finished", "user", username, "preset", entry.Preset,
				"score", entry.Score, "max", entry.MaxScore, "rank", rank)
			if rank < 0 {
				continue
			}
			changed = true
			if rank == 0 && entry.Score > 0 {
				s.broadcast(ClientEvent{Type: EventHighScore, Entry: entry})
			}
		default:
			return changed
		}
	}
}

// createSnapshot publishes a fresh immutable snapshot.
func (s *Server) createSnapshot() {
	s.snapshot.Store(&Snapshot{
		Players: s.clientCount(),
		Top:     s.board.Entries(),
	})
}
