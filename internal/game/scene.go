package game

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/balldrop/internal/physics"
)

// pegPositions lays out the staggered rack. Rows run left to right and
// wrap when x passes the field width.
func pegPositions(width float64) []mgl64.Vec2 {
	var out []mgl64.Vec2
	x, y, row := float64(PegStartX), float64(PegStartY), 0
	for y > PegFloorY {
		if x > width {
			if row%2 == 0 {
				x = PegEvenRowX
			} else {
				x = PegOddRowX
			}
			y -= PegSpacing
			row++
		}
		if y > PegFloorY {
			out = append(out, mgl64.Vec2{x, y})
		}
		x += PegSpacing
	}
	return out
}

// goalPositions draws n goal x positions on the goal grid. A draw closer
// than GoalMinSpacing to an earlier goal is redrawn; after GoalMaxAttempts
// the last draw is kept.
func goalPositions(rng *rand.Rand, width float64, n int) []float64 {
	slots := max(int(math.Ceil(width/GoalGridStep)), 1)
	out := make([]float64, 0, n)
	for range n {
		var x float64
		for range GoalMaxAttempts {
			x = float64(rng.IntN(slots) * GoalGridStep)
			if !tooClose(out, x) {
				break
			}
		}
		out = append(out, x)
	}
	return out
}

func tooClose(goals []float64, x float64) bool {
	for _, g := range goals {
		if math.Abs(x-g) < GoalMinSpacing {
			return true
		}
	}
	return false
}

// build spawns the preset's scene into sim.
func (g *Game) build() error {
	if !g.preset.Scoring {
		for _, spec := range g.preset.Bodies {
			if _, err := g.sim.Spawn(spec); err != nil {
				return err
			}
		}
		return nil
	}

	for _, p := range pegPositions(g.preset.Width) {
		if _, err := g.sim.Spawn(physics.BodySpec{
			Position: p,
			Mass:     PegMass,
			Radius:   PegRadius,
			Mode:     physics.Anchored,
		}); err != nil {
			return err
		}
	}

	for _, x := range goalPositions(g.rng, g.preset.Width, g.preset.Goals) {
		if _, err := g.sim.Spawn(physics.BodySpec{
			Position: mgl64.Vec2{x, GoalY},
			Mass:     GoalMass,
			Radius:   GoalRadius,
			Mode:     physics.Anchored,
			Goal:     true,
		}); err != nil {
			return err
		}
	}

	if g.ballsLeft > 0 {
		return g.spawnHeld(HeldStartX)
	}
	return nil
}

func (g *Game) spawnHeld(x float64) error {
	h, err := g.sim.Spawn(physics.BodySpec{
		Position: mgl64.Vec2{g.clampX(x), HeldY},
		Mass:     BallMass,
		Radius:   BallRadius,
		Mode:     physics.Held,
	})
	if err != nil {
		return err
	}
	g.held = h
	return nil
}

func (g *Game) clampX(x float64) float64 {
	return max(BallRadius, min(x, g.preset.Width-BallRadius))
}
