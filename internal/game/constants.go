package game

// Peg rack
const (
	PegRadius   = 20
	PegMass     = 1000
	PegStartX   = 38
	PegStartY   = 600
	PegSpacing  = 80
	PegEvenRowX = 90 // Row start after a wrap from an even row
	PegOddRowX  = 38 // Row start after a wrap from an odd row
	PegFloorY   = 180
)

// Goals
const (
	GoalRadius      = 25
	GoalMass        = 1000
	GoalY           = 50
	GoalGridStep    = 3  // Goal x positions are multiples of this
	GoalMinSpacing  = 30 // Closer draws are redrawn
	GoalMaxAttempts = 50
)

// Player ball
const (
	BallRadius = 10
	BallMass   = 1
	HeldStartX = 400
	HeldY      = 700
	MoveStep   = 7 // Horizontal shift per key press
)
