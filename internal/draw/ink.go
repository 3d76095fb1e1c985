package draw

import "strconv"

// ColorReset restores the terminal's default colours.
const ColorReset = "\033[0m"

// Ink is the colour of a canvas pixel. The zero Ink is an empty pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkWall
	InkPeg
	InkGoal
	InkBall
	InkHeld
)

// 256-colour palette index per ink.
var palette = [...]int{
	InkNone: 0,
	InkWall: 240,
	InkPeg:  250,
	InkGoal: 46,
	InkBall: 226,
	InkHeld: 51,
}

// Foreground returns the escape sequence selecting ink as text colour.
func (i Ink) Foreground() string {
	if int(i) >= len(palette) || i == InkNone {
		return ColorReset
	}
	return "\033[38;5;" + strconv.Itoa(palette[i]) + "m"
}

// Background returns the escape sequence selecting ink as cell background.
func (i Ink) Background() string {
	if int(i) >= len(palette) || i == InkNone {
		return ""
	}
	return "\033[48;5;" + strconv.Itoa(palette[i]) + "m"
}
