package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the parameters shared by every body in a Simulation.
type Config struct {
	Gravity     float64    // Downward acceleration; 0 gives inertial motion
	Restitution float64    // Coefficient of restitution e in [0, 1]
	Width       float64    // Right wall at x = Width
	Height      float64    // Top wall at y = Height
	Timestep    float64    // Seconds advanced by Tick
	Integrator  Integrator // nil selects Kinematic
}

// Validate reports the first parameter outside its valid range.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0):
		return fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfig, c.Gravity)
	case !(c.Restitution >= 0 && c.Restitution <= 1):
		return fmt.Errorf("%w: restitution %v outside [0, 1]", ErrInvalidConfig, c.Restitution)
	case !(c.Width > 0) || math.IsInf(c.Width, 0):
		return fmt.Errorf("%w: width %v must be positive", ErrInvalidConfig, c.Width)
	case !(c.Height > 0) || math.IsInf(c.Height, 0):
		return fmt.Errorf("%w: height %v must be positive", ErrInvalidConfig, c.Height)
	case !(c.Timestep > 0) || math.IsInf(c.Timestep, 0):
		return fmt.Errorf("%w: timestep %v must be positive", ErrInvalidConfig, c.Timestep)
	}
	return nil
}

func validateSpec(spec BodySpec) error {
	switch {
	case !(spec.Mass > 0) || math.IsInf(spec.Mass, 0):
		return fmt.Errorf("%w: mass %v must be positive", ErrInvalidConfig, spec.Mass)
	case !(spec.Radius > 0) || math.IsInf(spec.Radius, 0):
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidConfig, spec.Radius)
	case !spec.Mode.valid():
		return fmt.Errorf("%w: %v", ErrInvalidConfig, spec.Mode)
	}
	return nil
}

// Simulation owns an ordered set of bodies inside a walled field.
//
// It is not safe for concurrent use: Step and the body setters must be
// called from the same goroutine, or guarded by the caller.
type Simulation struct {
	cfg    Config
	bodies []*Body
	index  map[Handle]int
	next   Handle
	paused bool
	time   float64

	maxRadius float64
	grid      *SpatialGrid
	scratch   []int
}

// New creates an empty simulation.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Integrator == nil {
		cfg.Integrator = Kinematic{}
	}
	return &Simulation{
		cfg:   cfg,
		index: make(map[Handle]int),
		next:  1,
	}, nil
}

// Config returns the configuration the simulation was created with.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Time returns the total simulated seconds.
func (s *Simulation) Time() float64 {
	return s.time
}

// Len returns the number of live bodies.
func (s *Simulation) Len() int {
	return len(s.bodies)
}

// Spawn adds a body after all existing ones and returns its handle.
func (s *Simulation) Spawn(spec BodySpec) (Handle, error) {
	if err := validateSpec(spec); err != nil {
		return 0, err
	}
	h := s.next
	s.next++
	s.index[h] = len(s.bodies)
	s.bodies = append(s.bodies, newBody(h, spec))
	if spec.Radius > s.maxRadius {
		s.maxRadius = spec.Radius
	}
	return h, nil
}

// Remove retires a body. Later bodies keep their relative order.
func (s *Simulation) Remove(h Handle) error {
	i, err := s.lookup(h)
	if err != nil {
		return err
	}
	s.bodies = slices.Delete(s.bodies, i, i+1)
	delete(s.index, h)
	for j := i; j < len(s.bodies); j++ {
		s.index[s.bodies[j].handle] = j
	}
	return nil
}

// Contains reports whether h names a live body.
func (s *Simulation) Contains(h Handle) bool {
	_, ok := s.index[h]
	return ok
}

// SetBodyPosition moves a body and reseeds its integrator.
func (s *Simulation) SetBodyPosition(h Handle, p mgl64.Vec2) error {
	b, err := s.body(h)
	if err != nil {
		return err
	}
	b.setPosition(p)
	return nil
}

// SetBodyVelocity overwrites a body's velocity and reseeds its integrator.
func (s *Simulation) SetBodyVelocity(h Handle, v mgl64.Vec2) error {
	b, err := s.body(h)
	if err != nil {
		return err
	}
	b.setVelocity(v)
	return nil
}

// SetBodyMode switches a body between free, anchored and held.
func (s *Simulation) SetBodyMode(h Handle, m Mode) error {
	if !m.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, m)
	}
	b, err := s.body(h)
	if err != nil {
		return err
	}
	b.setMode(m)
	return nil
}

// BodyState returns a snapshot of one body.
func (s *Simulation) BodyState(h Handle) (BodyState, error) {
	b, err := s.body(h)
	if err != nil {
		return BodyState{}, err
	}
	return b.state(), nil
}

// Bodies returns snapshots of all bodies in index order.
func (s *Simulation) Bodies() []BodyState {
	out := make([]BodyState, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.state()
	}
	return out
}

// Pause makes Step a no-op until Resume.
func (s *Simulation) Pause() { s.paused = true }

// Resume undoes Pause.
func (s *Simulation) Resume() { s.paused = false }

// Paused reports whether Step is currently suspended.
func (s *Simulation) Paused() bool { return s.paused }

// Tick steps by the configured timestep.
func (s *Simulation) Tick() []CollisionEvent {
	return s.Step(s.cfg.Timestep)
}

// Step resolves collisions and then advances every free body by dt seconds.
// It returns the resolved collisions in the order they were found, or nil
// while paused. A non-positive dt resolves collisions without integrating.
func (s *Simulation) Step(dt float64) []CollisionEvent {
	if s.paused {
		return nil
	}
	return s.step(dt)
}

// ForceStep performs one step even while paused.
func (s *Simulation) ForceStep(dt float64) []CollisionEvent {
	return s.step(dt)
}

func (s *Simulation) step(dt float64) []CollisionEvent {
	events := s.collisionPass(nil)

	if !(dt > 0) || math.IsInf(dt, 0) {
		return events
	}
	for _, b := range s.bodies {
		b.advance(dt, s.cfg.Gravity, s.cfg.Integrator)
	}
	s.time += dt
	return events
}

func (s *Simulation) lookup(h Handle) (int, error) {
	i, ok := s.index[h]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return i, nil
}

func (s *Simulation) body(h Handle) (*Body, error) {
	i, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.bodies[i], nil
}
