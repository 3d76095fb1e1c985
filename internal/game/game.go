// Package game implements the ball-drop rules on top of the physics core:
// the peg rack, goals, the player's held ball, scoring and ball retirement.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/balldrop/internal/object"
	"github.com/tomz197/balldrop/internal/physics"
)

// ErrNoHeldBall is returned when the player acts on a ball while none is held.
var ErrNoHeldBall = errors.New("no held ball")

// Stats counts what happened during one game.
type Stats struct {
	Steps    int
	WallHits int
	BodyHits int
	Goals    int
	Lost     int // Balls retired by the bottom wall
}

// Result summarises a game.
type Result struct {
	Preset   string
	Score    int
	MaxScore int
	Dropped  int
	Steps    int
	Time     float64 // Simulated seconds
}

// Game is one player's ball-drop session. It is not safe for concurrent use.
type Game struct {
	preset Preset
	cfg    physics.Config
	rng    *rand.Rand
	sim    *physics.Simulation

	held        physics.Handle // 0 while no ball is held
	dropped     map[physics.Handle]struct{}
	lastDropped physics.Handle
	ballsLeft   int // Balls not yet dropped, the held one included
	score       int
	stats       Stats
}

// New creates a game for the preset. The seed fixes the goal layout.
func New(p Preset, seed uint64) (*Game, error) {
	cfg, err := p.PhysicsConfig()
	if err != nil {
		return nil, err
	}
	if p.Scoring && (p.Balls < 0 || p.Goals < 0) {
		return nil, fmt.Errorf("%w: preset %s needs non-negative balls and goals", physics.ErrInvalidConfig, p.Name)
	}
	g := &Game{
		preset: p,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed>>32|1)),
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) reset() error {
	sim, err := physics.New(g.cfg)
	if err != nil {
		return err
	}
	g.sim = sim
	g.held = 0
	g.lastDropped = 0
	g.dropped = make(map[physics.Handle]struct{})
	g.score = 0
	g.stats = Stats{}
	g.ballsLeft = 0
	if g.preset.Scoring {
		g.ballsLeft = g.preset.Balls
	}
	return g.build()
}

// Restart throws the current game away and deals a new goal layout.
func (g *Game) Restart() error {
	return g.reset()
}

// Preset returns the preset the game was created with.
func (g *Game) Preset() Preset {
	return g.preset
}

// Score returns the number of goals hit.
func (g *Game) Score() int {
	return g.score
}

// MaxScore returns the number of goals placed.
func (g *Game) MaxScore() int {
	if !g.preset.Scoring {
		return 0
	}
	return g.preset.Goals
}

// BallsLeft returns how many balls can still be dropped.
func (g *Game) BallsLeft() int {
	return g.ballsLeft
}

// InPlay returns how many dropped balls are still on the field.
func (g *Game) InPlay() int {
	return len(g.dropped)
}

// HasHeld reports whether the player is holding a ball.
func (g *Game) HasHeld() bool {
	return g.held != 0
}

// LastDropped returns the most recently dropped ball, or 0.
func (g *Game) LastDropped() physics.Handle {
	return g.lastDropped
}

// Stats returns the running counters.
func (g *Game) Stats() Stats {
	return g.stats
}

// Time returns the simulated seconds.
func (g *Game) Time() float64 {
	return g.sim.Time()
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.sim.Paused()
}

// TogglePause pauses a running game or resumes a paused one.
func (g *Game) TogglePause() {
	if g.sim.Paused() {
		g.sim.Resume()
	} else {
		g.sim.Pause()
	}
}

// Over reports whether a scoring game has ended: nothing is left to drop
// and no dropped ball remains in play.
func (g *Game) Over() bool {
	return g.preset.Scoring && g.ballsLeft == 0 && g.held == 0 && len(g.dropped) == 0
}

// Result summarises the game so far.
func (g *Game) Result() Result {
	return Result{
		Preset:   g.preset.Name,
		Score:    g.score,
		MaxScore: g.MaxScore(),
		Dropped:  g.preset.Balls - g.ballsLeft,
		Steps:    g.stats.Steps,
		Time:     g.sim.Time(),
	}
}

// Bodies returns snapshots of every body in index order.
func (g *Game) Bodies() []physics.BodyState {
	return g.sim.Bodies()
}

// Disks returns every body as a drawable disk.
func (g *Game) Disks() []object.Disk {
	states := g.sim.Bodies()
	out := make([]object.Disk, len(states))
	for i, s := range states {
		out[i] = object.NewDisk(s)
	}
	return out
}

// MoveHeld shifts the held ball horizontally, keeping it inside the field.
func (g *Game) MoveHeld(dx float64) error {
	if g.held == 0 {
		return ErrNoHeldBall
	}
	s, err := g.sim.BodyState(g.held)
	if err != nil {
		return err
	}
	return g.MoveHeldTo(s.Position[0] + dx)
}

// MoveHeldTo places the held ball at x, clamped inside the field.
func (g *Game) MoveHeldTo(x float64) error {
	if g.held == 0 {
		return ErrNoHeldBall
	}
	return g.sim.SetBodyPosition(g.held, mgl64.Vec2{g.clampX(x), HeldY})
}

// Drop releases the held ball from rest and, while balls remain, hands the
// player a new one at the same x.
func (g *Game) Drop() error {
	if g.held == 0 {
		return ErrNoHeldBall
	}
	h := g.held
	s, err := g.sim.BodyState(h)
	if err != nil {
		return err
	}
	if err := g.sim.SetBodyVelocity(h, mgl64.Vec2{}); err != nil {
		return err
	}
	if err := g.sim.SetBodyMode(h, physics.Free); err != nil {
		return err
	}

	g.held = 0
	g.dropped[h] = struct{}{}
	g.lastDropped = h
	g.ballsLeft--
	if g.ballsLeft > 0 {
		return g.spawnHeld(s.Position[0])
	}
	return nil
}

// Tick advances the game by one timestep and applies the scoring rules to
// the resulting collisions. While paused nothing happens unless force is set.
// The error reports a failure to hand out the next ball.
func (g *Game) Tick(force bool) ([]physics.CollisionEvent, error) {
	if g.sim.Paused() && !force {
		return nil, nil
	}
	events := g.sim.ForceStep(g.cfg.Timestep)
	g.stats.Steps++
	return events, g.apply(events)
}

func (g *Game) apply(events []physics.CollisionEvent) error {
	var errs []error
	for _, ev := range events {
		switch ev.Kind {
		case physics.WallHit:
			g.stats.WallHits++
		case physics.BodyHit:
			g.stats.BodyHits++
		}
		if !g.preset.Scoring {
			continue
		}

		a, err := g.sim.BodyState(ev.A)
		if err != nil {
			continue // retired earlier in this batch
		}

		switch ev.Kind {
		case physics.BodyHit:
			b, err := g.sim.BodyState(ev.B)
			if err != nil || !(a.Goal || b.Goal) {
				continue
			}
			errs = append(errs, g.retire(ev.A), g.retire(ev.B))
			g.score++
			g.stats.Goals++
		case physics.WallHit:
			if ev.Wall != physics.WallBottom || a.Mode != physics.Free || a.Goal {
				continue
			}
			errs = append(errs, g.retire(ev.A))
			g.stats.Lost++
		}
	}
	return errors.Join(errs...)
}

// retire removes a body struck out of play. A struck held ball costs the
// player that ball and a new one is handed out while balls remain.
func (g *Game) retire(h physics.Handle) error {
	if !g.sim.Contains(h) {
		return nil
	}
	if err := g.sim.Remove(h); err != nil {
		return err
	}
	delete(g.dropped, h)
	if h != g.held {
		return nil
	}
	g.held = 0
	g.ballsLeft--
	if g.ballsLeft > 0 {
		if err := g.spawnHeld(HeldStartX); err != nil {
			return fmt.Errorf("respawn held ball: %w", err)
		}
	}
	return nil
}
