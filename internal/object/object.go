// Package object holds the drawable things of a ball-drop frame.
package object

import (
	"io"

	"github.com/tomz197/balldrop/internal/draw"
	"github.com/tomz197/balldrop/internal/physics"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	Writer io.Writer    // Direct terminal output (for text)
}

// Object is anything that can be drawn into a frame.
type Object interface {
	Draw(ctx DrawContext) error
}

// Role is what a disk means to the player.
type Role int

const (
	RolePeg  Role = iota // Anchored obstacle
	RoleGoal             // Anchored scoring target
	RoleBall             // Dropped ball in flight
	RoleHeld             // Ball the player is positioning
)

// RoleOf derives a disk's role from its physics state.
func RoleOf(s physics.BodyState) Role {
	switch {
	case s.Goal:
		return RoleGoal
	case s.Mode == physics.Anchored:
		return RolePeg
	case s.Mode == physics.Held:
		return RoleHeld
	default:
		return RoleBall
	}
}

// Ink returns the canvas colour for the role.
func (r Role) Ink() draw.Ink {
	switch r {
	case RoleGoal:
		return draw.InkGoal
	case RoleBall:
		return draw.InkBall
	case RoleHeld:
		return draw.InkHeld
	default:
		return draw.InkPeg
	}
}

// Disk is a body snapshot ready to draw.
type Disk struct {
	physics.BodyState
	Role Role
}

// NewDisk wraps a body snapshot.
func NewDisk(s physics.BodyState) Disk {
	return Disk{BodyState: s, Role: RoleOf(s)}
}

// Draw fills the disk on the canvas in its role's colour.
func (d Disk) Draw(ctx DrawContext) error {
	ctx.Canvas.FillCircle(d.Position[0], d.Position[1], d.Radius, d.Role.Ink())
	return nil
}

// Field is the walled play area.
type Field struct {
	Width, Height float64
}

// Draw outlines the walls.
func (f Field) Draw(ctx DrawContext) error {
	ctx.Canvas.StrokeRect(0, 0, f.Width, f.Height, draw.InkWall)
	return nil
}
