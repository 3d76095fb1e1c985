// Package physics simulates 2D disks falling under gravity and bouncing off
// the four field walls and each other with impulse-based collision response.
//
// A Simulation owns every Body. The host spawns bodies, steps the simulation
// once per frame and reacts to the returned CollisionEvents; game rules such
// as scoring or retiring bodies live in the host, not here.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b mgl64.Vec2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b mgl64.Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// CirclesOverlap reports whether two circles touch or overlap.
// Touching counts: a disk resting exactly on another is in contact.
func CirclesOverlap(a mgl64.Vec2, ra float64, b mgl64.Vec2, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) <= minDist*minDist
}
