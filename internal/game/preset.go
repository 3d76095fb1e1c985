package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/balldrop/internal/physics"
)

// ErrUnknownPreset is returned for a preset name that is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset describes one variant of the game: the field, the physics
// parameters and whether the ball-drop scoring rules apply.
type Preset struct {
	Name        string
	Width       float64
	Height      float64
	Gravity     float64
	Restitution float64
	Timestep    float64
	Integrator  string

	// Scoring presets build the peg rack, goals and held ball.
	Scoring bool
	Balls   int
	Goals   int

	// Bodies is the fixed scene of non-scoring presets.
	Bodies []physics.BodySpec
}

var presets = map[string]Preset{
	"balldrop": {
		Name:        "balldrop",
		Width:       800,
		Height:      800,
		Gravity:     98,
		Restitution: 0.3,
		Timestep:    0.05,
		Scoring:     true,
		Balls:       10,
		Goals:       5,
	},
	"earth": {
		Name:        "earth",
		Width:       800,
		Height:      800,
		Gravity:     9.8,
		Restitution: 0.3,
		Timestep:    0.05,
		Scoring:     true,
		Balls:       10,
		Goals:       5,
	},
	"collide": {
		Name:        "collide",
		Width:       200,
		Height:      200,
		Gravity:     0,
		Restitution: 1,
		Timestep:    0.01,
		Bodies: []physics.BodySpec{
			{Position: mgl64.Vec2{100, 100}, Mass: 1, Radius: 10},
			{Position: mgl64.Vec2{110, 160}, Velocity: mgl64.Vec2{0, -400}, Mass: 1, Radius: 10},
		},
	},
}

// DefaultPreset is the scoring game.
const DefaultPreset = "balldrop"

// PresetByName returns a registered preset. Names are case-insensitive.
func PresetByName(name string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultPreset
	}
	p, ok := presets[key]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	p.Bodies = slices.Clone(p.Bodies)
	return p, nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Overrides replaces individual preset parameters. Nil fields and an empty
// Integrator keep the preset's value.
type Overrides struct {
	Gravity     *float64
	Restitution *float64
	Timestep    *float64
	Integrator  string
}

// With returns a copy of p with the overrides applied.
func (p Preset) With(o Overrides) Preset {
	if o.Gravity != nil {
		p.Gravity = *o.Gravity
	}
	if o.Restitution != nil {
		p.Restitution = *o.Restitution
	}
	if o.Timestep != nil {
		p.Timestep = *o.Timestep
	}
	if o.Integrator != "" {
		p.Integrator = o.Integrator
	}
	return p
}

// PhysicsConfig builds and validates the simulation parameters.
func (p Preset) PhysicsConfig() (physics.Config, error) {
	integ, err := physics.IntegratorByName(p.Integrator)
	if err != nil {
		return physics.Config{}, err
	}
	cfg := physics.Config{
		Gravity:     p.Gravity,
		Restitution: p.Restitution,
		Width:       p.Width,
		Height:      p.Height,
		Timestep:    p.Timestep,
		Integrator:  integ,
	}
	if err := cfg.Validate(); err != nil {
		return physics.Config{}, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return cfg, nil
}
