package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode controls how a body moves.
type Mode int

const (
	Free     Mode = iota // Integrates under gravity and takes impulses
	Anchored             // Never moves; infinite mass in collisions
	Held                 // Positioned by the player; takes impulses but does not integrate
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case Anchored:
		return "anchored"
	case Held:
		return "held"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m >= Free && m <= Held
}

// Handle identifies a body inside its Simulation. The zero Handle is never issued.
type Handle uint64

// BodySpec describes a body to spawn.
type BodySpec struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Mass     float64
	Radius   float64
	Mode     Mode
	Goal     bool // Striking this body is a scoring event for the host
}

// BodyState is a read-only snapshot of a body.
type BodyState struct {
	Handle   Handle
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Mass     float64
	Radius   float64
	Mode     Mode
	Goal     bool
}

// Body is a single disk and its integrator bookkeeping.
//
// pos and vel always agree with the integrator: every external write
// reseeds at the current simTime, so advance never replays stale history.
type Body struct {
	handle Handle
	pos    mgl64.Vec2
	vel    mgl64.Vec2
	mass   float64
	radius float64
	mode   Mode
	goal   bool

	simTime  float64
	seed     State
	seedTime float64
}

func newBody(h Handle, spec BodySpec) *Body {
	b := &Body{
		handle: h,
		pos:    spec.Position,
		vel:    spec.Velocity,
		mass:   spec.Mass,
		radius: spec.Radius,
		mode:   spec.Mode,
		goal:   spec.Goal,
	}
	b.reseed()
	return b
}

// advance moves a free body forward by dt seconds, integrating from the last
// seed to the new local time. Anchored and held bodies are left untouched.
func (b *Body) advance(dt, gravity float64, integ Integrator) {
	if b.mode != Free {
		return
	}
	b.simTime += dt
	s := integ.Integrate(b.seed, b.simTime-b.seedTime, gravity)
	b.pos = s.Pos
	b.vel = s.Vel
}

func (b *Body) setPosition(p mgl64.Vec2) {
	b.pos = p
	b.reseed()
}

func (b *Body) setVelocity(v mgl64.Vec2) {
	b.vel = v
	b.reseed()
}

func (b *Body) setMode(m Mode) {
	b.mode = m
	b.reseed()
}

func (b *Body) reseed() {
	b.seed = State{Pos: b.pos, Vel: b.vel}
	b.seedTime = b.simTime
}

// inverseMass is 0 for anchored bodies, which therefore never take impulses.
func (b *Body) inverseMass() float64 {
	if b.mode == Anchored {
		return 0
	}
	return 1 / b.mass
}

func (b *Body) state() BodyState {
	return BodyState{
		Handle:   b.handle,
		Position: b.pos,
		Velocity: b.vel,
		Mass:     b.mass,
		Radius:   b.radius,
		Mode:     b.mode,
		Goal:     b.goal,
	}
}
