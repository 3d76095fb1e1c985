package physics

import "fmt"

// Wall identifies one side of the play field.
type Wall int

// Walls are tested in declaration order.
const (
	WallLeft   Wall = iota // x = 0
	WallRight              // x = Width
	WallTop                // y = Height
	WallBottom             // y = 0
)

var walls = [...]Wall{WallLeft, WallRight, WallTop, WallBottom}

// String returns the lowercase name of the wall.
func (w Wall) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallTop:
		return "top"
	case WallBottom:
		return "bottom"
	default:
		return fmt.Sprintf("wall(%d)", int(w))
	}
}

// CollisionKind distinguishes wall contacts from disk contacts.
type CollisionKind int

const (
	WallHit CollisionKind = iota
	BodyHit
)

// CollisionEvent reports one resolved collision.
//
// For a WallHit, A is the body and Wall names the side; B is zero.
// For a BodyHit, A has the lower index of the pair at the time of the step.
type CollisionEvent struct {
	Kind CollisionKind
	Wall Wall
	A    Handle
	B    Handle
}

// Involves reports whether h took part in the collision.
func (e CollisionEvent) Involves(h Handle) bool {
	return e.A == h || (e.Kind == BodyHit && e.B == h)
}

// Other returns the partner of h in a BodyHit, or zero.
func (e CollisionEvent) Other(h Handle) Handle {
	if e.Kind != BodyHit {
		return 0
	}
	switch h {
	case e.A:
		return e.B
	case e.B:
		return e.A
	}
	return 0
}

func (e CollisionEvent) String() string {
	if e.Kind == WallHit {
		return fmt.Sprintf("wall hit: body %d, %s wall", e.A, e.Wall)
	}
	return fmt.Sprintf("body hit: %d and %d", e.A, e.B)
}
