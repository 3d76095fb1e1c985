// Package client runs one terminal session: it reads keys, advances the
// session's own game and draws the frame.
package client

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/balldrop/internal/draw"
	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/input"
	"github.com/tomz197/balldrop/internal/loop/config"
	"github.com/tomz197/balldrop/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	hub          server.Hub // nil for local play
	handle       *server.ClientHandle
	game         *game.Game
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates one frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	styles       styles
	err          error
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Preset       game.Preset
	Seed         uint64
}

// NewClient creates a client playing its own game. hub may be nil.
func NewClient(hub server.Hub, r io.ByteReader, w io.Writer, opts ClientOptions) (*Client, error) {
	g, err := game.New(opts.Preset, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	c := &Client{
		hub:          hub,
		game:         g,
		state:        NewClientState(),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     username,
		termSizeFunc: termSizeFunc,
		styles:       newStyles(lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))),
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	l := layoutFor(termWidth, termHeight)
	c.canvas = draw.NewScaledCanvas(l.fieldWidth, l.fieldHeight, opts.Preset.Width, opts.Preset.Height)
	c.canvas.SetOffset(l.offsetCol, l.fieldRow)

	if hub != nil {
		c.handle = hub.RegisterClient(username)
	}
	return c, nil
}

// Game returns the session's game.
func (c *Client) Game() *game.Game {
	return c.game
}

// Run starts the client loop. Blocks until the player quits, the input
// ends, or the server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	if c.hub != nil {
		defer c.hub.UnregisterClient(c.handle.ID)
	}

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return c.err
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			c.handleEvent(event)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(event server.ClientEvent) {
	switch event.Type {
	case server.EventHighScore:
		c.state.highScore = event.Entry
		c.state.highScoreTimer = highScoreDisplaySeconds
	case server.EventServerShutdown:
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	}
}

// updateScreen handles terminal resize. On actual size changes it clears
// the terminal to remove residual pixels outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	l := layoutFor(termWidth, termHeight)

	if l.fieldWidth != c.canvas.TerminalWidth() || l.fieldHeight != c.canvas.TerminalHeight() ||
		l.offsetCol != c.canvas.OffsetCol() || l.fieldRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.Resize(l.fieldWidth, l.fieldHeight)
		c.canvas.SetOffset(l.offsetCol, l.fieldRow)
		c.canvas.ForceRedraw()
	}
}

// layout places the HUD rows and the field inside the terminal.
type layout struct {
	width       int // Render area columns
	height      int // Render area rows, HUD included
	offsetCol   int // 0-based column of the render area
	offsetRow   int // 0-based row of the render area
	fieldWidth  int
	fieldHeight int
	fieldRow    int // 0-based row of the field's first line
}

// layoutFor clamps terminal dimensions to the max render resolution,
// centres the render area and reserves the HUD rows.
func layoutFor(termWidth, termHeight int) layout {
	l := layout{
		width:  max(min(termWidth, config.MaxTermWidth), 1),
		height: max(min(termHeight, config.MaxTermHeight), 2*config.HUDRows+1),
	}
	l.offsetCol = max((termWidth-l.width)/2, 0)
	l.offsetRow = max((termHeight-l.height)/2, 0)
	l.fieldWidth = l.width
	l.fieldHeight = l.height - 2*config.HUDRows
	l.fieldRow = l.offsetRow + config.HUDRows
	return l
}

// update advances the session by one frame.
func (c *Client) update() {
	if c.state.Input.Quit {
		c.state.Running = false
		return
	}
	if c.state.highScoreTimer > 0 {
		c.state.highScoreTimer -= c.state.delta.Seconds()
	}

	switch c.state.GameState {
	case GameStateStart:
		if c.state.Input.Drop || c.state.Input.Enter {
			c.state.GameState = GameStatePlaying
		}
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateOver:
		if c.state.Input.Drop || c.state.Input.Enter || c.state.Input.Restart {
			c.restart()
		}
	case GameStateShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updatePlayingState applies the player's keys and ticks the game.
func (c *Client) updatePlayingState() {
	in := c.state.Input
	g := c.game

	if in.Restart {
		c.restart()
		return
	}
	if in.Pause {
		g.TogglePause()
	}
	if in.Move != 0 {
		_ = g.MoveHeld(float64(in.Move) * game.MoveStep)
	}
	if in.Drop {
		_ = g.Drop()
	}

	// Space and N single-step a paused game.
	if _, err := g.Tick(g.Paused() && (in.Drop || in.Step)); err != nil {
		c.err = err
		c.state.Running = false
		return
	}

	if g.Over() {
		c.finishGame()
	}
}

// finishGame shows the final score and reports it to the hub once.
func (c *Client) finishGame() {
	c.state.GameState = GameStateOver
	if c.hub != nil && !c.state.submitted {
		c.hub.SubmitResult(c.handle.ID, c.game.Result())
	}
	c.state.submitted = true
}

// restart deals a new game and goes straight back to playing.
func (c *Client) restart() {
	if err := c.game.Restart(); err != nil {
		c.err = err
		c.state.Running = false
		return
	}
	c.state.submitted = false
	c.state.GameState = GameStatePlaying
}
