// Package trace plays a preset headlessly and reports what happened.
package trace

import (
	"errors"
	"fmt"

	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/physics"
)

// Options controls a headless run.
type Options struct {
	Steps int       // Upper bound on ticks
	Drops []float64 // x of each drop; empty drops at the start position
	Seed  uint64
}

// Report is the outcome of a run. Energy and Height hold one sample per tick.
type Report struct {
	Preset  string
	Steps   int
	Result  game.Result
	Stats   game.Stats
	Energy  []float64 // Total kinetic energy of the moving bodies
	Height  []float64 // Height of the most recently dropped or moving ball
	Dropped int
}

// Run plays p for at most opts.Steps ticks. A scoring preset drops the next
// ball whenever none is in play and stops once the game is over.
func Run(p game.Preset, opts Options) (Report, error) {
	if opts.Steps <= 0 {
		return Report{}, fmt.Errorf("%w: steps %d must be positive", physics.ErrInvalidConfig, opts.Steps)
	}
	g, err := game.New(p, opts.Seed)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Preset: p.Name,
		Energy: make([]float64, 0, opts.Steps),
		Height: make([]float64, 0, opts.Steps),
	}

	for step := 0; step < opts.Steps && !g.Over(); step++ {
		if g.HasHeld() && g.InPlay() == 0 {
			if err := drop(g, opts.Drops, r.Dropped); err != nil {
				return r, err
			}
			r.Dropped++
		}

		if _, err := g.Tick(false); err != nil {
			return r, err
		}
		energy, height := sample(g)
		r.Energy = append(r.Energy, energy)
		r.Height = append(r.Height, height)
	}

	r.Steps = len(r.Energy)
	r.Result = g.Result()
	r.Stats = g.Stats()
	return r, nil
}

func drop(g *game.Game, xs []float64, n int) error {
	if len(xs) > 0 {
		if err := g.MoveHeldTo(xs[n%len(xs)]); err != nil {
			return err
		}
	}
	if err := g.Drop(); err != nil && !errors.Is(err, game.ErrNoHeldBall) {
		return err
	}
	return nil
}

// sample measures the kinetic energy of all non-anchored bodies and the
// height of the followed ball: the last dropped one, or the first free body
// when nothing was dropped. A retired ball reads as height 0.
func sample(g *game.Game) (energy, height float64) {
	follow := g.LastDropped()
	found := false

	for _, s := range g.Bodies() {
		if s.Mode == physics.Anchored {
			continue
		}
		energy += 0.5 * s.Mass * s.Velocity.Dot(s.Velocity)
		if !found && (s.Handle == follow || (follow == 0 && s.Mode == physics.Free)) {
			height = s.Position[1]
			found = true
		}
	}
	return energy, max(height, 0)
}
