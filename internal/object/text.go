package object

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Text is a styled line of text.
// Coordinates are 1-based terminal positions.
type Text struct {
	X     int
	Y     int
	Value string
	Style lipgloss.Style
}

// Width returns the number of terminal columns the rendered text covers.
func (t Text) Width() int {
	return lipgloss.Width(t.Style.Render(t.Value))
}

// Draw writes the text at its position using ANSI cursor movement.
func (t Text) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	x := max(t.X, 1)
	y := max(t.Y, 1)
	_, err := fmt.Fprintf(ctx.Writer, "\033[%d;%dH%s", y, x, t.Style.Render(t.Value))
	return err
}

// Centered returns a Text horizontally centred within width columns on row y.
func Centered(y, width int, value string, style lipgloss.Style) Text {
	t := Text{Y: y, Value: value, Style: style}
	t.X = (width-t.Width())/2 + 1
	return t
}

// Lines draws the texts in order.
func Lines(ctx DrawContext, lines ...Text) error {
	for _, l := range lines {
		if err := l.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}
