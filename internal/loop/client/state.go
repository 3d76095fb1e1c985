package client

import (
	"time"

	"github.com/tomz197/balldrop/internal/input"
	"github.com/tomz197/balldrop/internal/loop/server"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // All balls used, show the score
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-session state that is not part of the game itself.
type ClientState struct {
	Input         input.Input
	GameState     GameState     // This client's game phase
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	submitted     bool          // Result of the current game sent to the hub

	// Latest new best announced by the hub and how long to keep showing it.
	highScore      server.Entry
	highScoreTimer float64

	// Previous frame's phase, for full clears on transitions.
	prevGameState GameState
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
