package client

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/balldrop/internal/loop/config"
	"github.com/tomz197/balldrop/internal/object"
)

// highScoreDisplaySeconds is how long a new best stays in the HUD.
const highScoreDisplaySeconds = 5.0

type styles struct {
	title lipgloss.Style
	text  lipgloss.Style
	dim   lipgloss.Style
	goal  lipgloss.Style
	warn  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		text:  r.NewStyle().Foreground(lipgloss.Color("252")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("244")),
		goal:  r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	ctx := object.DrawContext{Canvas: c.canvas, Writer: c.chunkWriter}

	if c.state.GameState != GameStateShutdown && !c.state.isInactive {
		p := c.game.Preset()
		if err := (object.Field{Width: p.Width, Height: p.Height}).Draw(ctx); err != nil {
			return err
		}
		for _, d := range c.game.Disks() {
			if err := d.Draw(ctx); err != nil {
				return err
			}
		}
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.drawUI(ctx); err != nil {
		return err
	}
	return c.chunkWriter.Flush()
}

// writeText draws text over the canvas and marks the covered cells so the
// canvas repaints them once the text is gone.
func (c *Client) writeText(ctx object.DrawContext, lines ...object.Text) error {
	for _, t := range lines {
		if err := t.Draw(ctx); err != nil {
			return err
		}
		c.canvas.MarkTextDirty(t.X, t.Y, t.Width())
	}
	return nil
}

// drawUI draws the text layer for the current state.
func (c *Client) drawUI(ctx object.DrawContext) error {
	termWidth, termHeight, _ := c.termSizeFunc()
	l := layoutFor(termWidth, termHeight)

	if c.state.GameState == GameStateShutdown {
		return c.drawShutdownScreen(ctx, l)
	}
	if c.state.isInactive {
		return c.drawInactivityScreen(ctx, l)
	}

	switch c.state.GameState {
	case GameStateStart:
		return c.drawStartScreen(ctx, l)
	case GameStatePlaying:
		return c.drawPlayingHUD(ctx, l)
	case GameStateOver:
		if err := c.drawPlayingHUD(ctx, l); err != nil {
			return err
		}
		return c.drawOverScreen(ctx, l)
	}
	return nil
}

// centred returns value centred in the render area on the given 1-based row
// of that area.
func (c *Client) centred(l layout, row int, value string, style lipgloss.Style) object.Text {
	t := object.Centered(l.offsetRow+row, l.width, value, style)
	t.X += l.offsetCol
	return t
}

// blinkOn alternates every 600ms for prompts.
func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(ctx object.DrawContext, l layout) error {
	centerY := l.height / 2
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	return c.writeText(ctx,
		c.centred(l, centerY-2, "INACTIVITY WARNING", c.styles.warn),
		c.centred(l, centerY, msg, c.styles.text),
		c.centred(l, centerY+2, "Press any key to continue", c.styles.dim),
	)
}

// drawStartScreen draws the title screen over the board.
func (c *Client) drawStartScreen(ctx object.DrawContext, l layout) error {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___   _   _    _      ___  ___  ___  ___  `,
		`| _ ) /_\ | |  | |    |   \| _ \/ _ \| _ \ `,
		`| _ \/ _ \| |__| |__  | |) |   / (_) |  _/ `,
		`|___/_/ \_\____|____| |___/|_|_\\___/|_|   `,
	}

	titleStartY := l.height/2 - 8
	var lines []object.Text
	for i, line := range titleArt {
		lines = append(lines, c.centred(l, titleStartY+i, line, c.styles.title))
	}

	y := titleStartY + len(titleArt) + 1
	lines = append(lines,
		c.centred(l, y, "Drop the balls and hit the GREEN goals", c.styles.text),
		c.centred(l, y+2, "Controls", c.styles.text),
		c.centred(l, y+3, "A D / < >  . . . . Move ball", c.styles.dim),
		c.centred(l, y+4, "SPACE  . . . . . . Drop ball", c.styles.dim),
		c.centred(l, y+5, "P  . . . . . . . . . . Pause", c.styles.dim),
		c.centred(l, y+6, "N / SPACE  . Step when paused", c.styles.dim),
		c.centred(l, y+7, "R  . . . . . . . . . Restart", c.styles.dim),
		c.centred(l, y+8, "Q  . . . . . . . . . . . Quit", c.styles.dim),
	)
	if blinkOn() {
		lines = append(lines, c.centred(l, y+10, ">>  Press SPACE to Start  <<", c.styles.title))
	}
	return c.writeText(ctx, lines...)
}

// drawPlayingHUD draws the score line above the field and the status line below it.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(ctx object.DrawContext, l layout) error {
	g := c.game
	top := l.offsetRow + 1
	bottom := l.offsetRow + l.height
	left := l.offsetCol + 2

	var lines []object.Text
	if g.MaxScore() > 0 {
		lines = append(lines,
			object.Text{X: left, Y: top, Value: fmt.Sprintf("Score: %d/%-4d", g.Score(), g.MaxScore()), Style: c.styles.goal},
			object.Text{X: left + 16, Y: top, Value: fmt.Sprintf("Balls: %-3d", g.BallsLeft()), Style: c.styles.text},
		)
	} else {
		lines = append(lines, object.Text{X: left, Y: top, Value: fmt.Sprintf("%s  t=%-9.2f", g.Preset().Name, g.Time()), Style: c.styles.text})
	}

	status := "          "
	if g.Paused() {
		status = "[ PAUSED ]"
	}
	lines = append(lines, object.Text{X: left + 30, Y: top, Value: status, Style: c.styles.warn})

	if c.hub != nil {
		snap := c.hub.GetSnapshot()
		best := "Best: -"
		if e, ok := snap.Best(); ok {
			best = fmt.Sprintf("Best: %s %d/%d", e.Username, e.Score, e.MaxScore)
		}
		best = fmt.Sprintf("%-*s", config.MaxUsernameLength+14, best)
		lines = append(lines,
			object.Text{X: l.offsetCol + l.width - len(best) - 1, Y: top, Value: best, Style: c.styles.text},
			object.Text{X: l.offsetCol + l.width - 14, Y: bottom, Value: fmt.Sprintf("Players: %-4d", snap.Players), Style: c.styles.dim},
		)
	}

	hint := "<- -> move   SPACE drop   P pause   R restart   Q quit"
	if c.state.highScoreTimer > 0 {
		e := c.state.highScore
		hint = fmt.Sprintf("New best: %s scored %d/%d!", e.Username, e.Score, e.MaxScore)
	}
	lines = append(lines, object.Text{X: left, Y: bottom, Value: fmt.Sprintf("%-54s", hint), Style: c.styles.dim})

	return c.writeText(ctx, lines...)
}

// drawOverScreen draws the final score.
func (c *Client) drawOverScreen(ctx object.DrawContext, l layout) error {
	titleArt := []string{
		`  ___   _   __  __ ___    _____   _____ ___  `,
		` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	titleStartY := l.height/2 - 5
	var lines []object.Text
	for i, line := range titleArt {
		lines = append(lines, c.centred(l, titleStartY+i, line, c.styles.title))
	}

	g := c.game
	y := titleStartY + len(titleArt) + 1
	lines = append(lines, c.centred(l, y, fmt.Sprintf("Your score is %d/%d", g.Score(), g.MaxScore()), c.styles.goal))
	if blinkOn() {
		lines = append(lines, c.centred(l, y+2, ">>  Press SPACE to Play Again  <<", c.styles.title))
	}
	return c.writeText(ctx, lines...)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(ctx object.DrawContext, l layout) error {
	centerY := l.height / 2
	remaining := int(c.state.shutdownTimer) + 1
	return c.writeText(ctx,
		c.centred(l, centerY-3, "SERVER SHUTTING DOWN", c.styles.warn),
		c.centred(l, centerY-1, "The server is restarting for maintenance.", c.styles.text),
		c.centred(l, centerY, "Please reconnect in a moment.", c.styles.text),
		c.centred(l, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining), c.styles.text),
		c.centred(l, centerY+4, "Press Q to disconnect now", c.styles.dim),
	)
}
