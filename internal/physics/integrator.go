package physics

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the integrated part of a body: y = [x, y, vx, vy].
type State struct {
	Pos mgl64.Vec2
	Vel mgl64.Vec2
}

// Integrator advances a seeded state by elapsed seconds under uniform
// downward gravity. Implementations must be pure: the same inputs always
// produce the same output.
type Integrator interface {
	Integrate(seed State, elapsed, gravity float64) State
}

// Kinematic integrates with the closed-form solution of constant
// acceleration. It is exact up to rounding and is the default.
type Kinematic struct{}

// Integrate implements Integrator.
func (Kinematic) Integrate(seed State, elapsed, gravity float64) State {
	return State{
		Pos: mgl64.Vec2{
			seed.Pos[0] + seed.Vel[0]*elapsed,
			seed.Pos[1] + seed.Vel[1]*elapsed - 0.5*gravity*elapsed*elapsed,
		},
		Vel: mgl64.Vec2{
			seed.Vel[0],
			seed.Vel[1] - gravity*elapsed,
		},
	}
}

// RK4 integrates f(t, y) = [vx, vy, 0, -g] with one classical fourth-order
// Runge-Kutta step. Motion under constant gravity is quadratic in time, which
// RK4 reproduces exactly, so no step subdivision is needed.
type RK4 struct{}

// Integrate implements Integrator.
func (RK4) Integrate(seed State, elapsed, gravity float64) State {
	h := elapsed
	accel := mgl64.Vec2{0, -gravity}

	deriv := func(s State) State {
		return State{Pos: s.Vel, Vel: accel}
	}
	offset := func(s, d State, scale float64) State {
		return State{
			Pos: s.Pos.Add(d.Pos.Mul(scale)),
			Vel: s.Vel.Add(d.Vel.Mul(scale)),
		}
	}

	k1 := deriv(seed)
	k2 := deriv(offset(seed, k1, h/2))
	k3 := deriv(offset(seed, k2, h/2))
	k4 := deriv(offset(seed, k3, h))

	sum := State{
		Pos: k1.Pos.Add(k2.Pos.Mul(2)).Add(k3.Pos.Mul(2)).Add(k4.Pos),
		Vel: k1.Vel.Add(k2.Vel.Mul(2)).Add(k3.Vel.Mul(2)).Add(k4.Vel),
	}
	return offset(seed, sum, h/6)
}

// IntegratorByName returns the integrator registered under name.
// An empty name selects Kinematic.
func IntegratorByName(name string) (Integrator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "kinematic":
		return Kinematic{}, nil
	case "rk4":
		return RK4{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, name)
	}
}
