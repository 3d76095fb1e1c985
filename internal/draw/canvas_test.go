package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestCanvasUniformScale(t *testing.T) {
	tests := []struct {
		name          string
		cols, rows    int
		w, h          float64
		scale, ox, oy float64
	}{
		{"square fits exactly", 80, 40, 800, 800, 0.1, 0, 0},
		{"wide terminal centres horizontally", 120, 40, 800, 800, 0.1, 20, 0},
		{"tall terminal centres vertically", 40, 40, 800, 800, 0.05, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewScaledCanvas(tt.cols, tt.rows, tt.w, tt.h)
			if c.Scale() != tt.scale || c.originX != tt.ox || c.originY != tt.oy {
				t.Errorf("scale=%v origin=(%v,%v), want %v (%v,%v)", c.Scale(), c.originX, c.originY, tt.scale, tt.ox, tt.oy)
			}
		})
	}
}

func TestFillCircleYPointsUp(t *testing.T) {
	c := NewScaledCanvas(80, 40, 800, 800)
	c.FillCircle(400, 700, 50, InkBall)

	if got := c.At(400, 700); got != InkBall {
		t.Errorf("centre ink = %v", got)
	}
	px, py := c.toPixel(400, 700)
	if px != 40 || py != 10 {
		t.Errorf("(400,700) maps to pixel (%v,%v), want (40,10)", px, py)
	}
	if got := c.At(400, 100); got != InkNone {
		t.Errorf("mirrored point is inked: %v", got)
	}
}

func TestFillCircleTinyDiskStaysVisible(t *testing.T) {
	c := NewScaledCanvas(80, 40, 800, 800)
	c.FillCircle(123, 456, 0.5, InkGoal)
	if c.At(123, 456) != InkGoal {
		t.Error("sub-pixel disk not drawn")
	}
}

func TestRenderOnlyEmitsChanges(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.StrokeRect(0, 0, 10, 10, InkWall)

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), string(BlockUpperHalf)) || !strings.Contains(buf.String(), InkWall.Foreground()) {
		t.Fatalf("first frame missing the border: %q", buf.String())
	}

	buf.Reset()
	_ = c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("unchanged frame wrote %d bytes", buf.Len())
	}

	c.Set(5, 5, InkBall)
	_ = c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 1 {
		t.Errorf("one changed cell produced %d cursor moves: %q", n, buf.String())
	}

	buf.Reset()
	c.ForceRedraw()
	_ = c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 50 {
		t.Errorf("forced redraw repainted %d cells, want 50", n)
	}
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetOffset(3, 1)
	var buf bytes.Buffer
	_ = c.Render(&buf)
	if !strings.HasPrefix(buf.String(), "\033[2;4H") {
		t.Errorf("first cell not offset: %q", buf.String())
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		top, bottom Ink
		want        cell
	}{
		{InkNone, InkNone, cell{ch: ' '}},
		{InkPeg, InkNone, cell{ch: BlockUpperHalf, fg: InkPeg}},
		{InkNone, InkGoal, cell{ch: BlockLowerHalf, fg: InkGoal}},
		{InkBall, InkBall, cell{ch: BlockFull, fg: InkBall}},
		{InkBall, InkPeg, cell{ch: BlockUpperHalf, fg: InkBall, bg: InkPeg}},
	}
	for _, tt := range tests {
		if got := compose(tt.top, tt.bottom); got != tt.want {
			t.Errorf("compose(%v, %v) = %+v, want %+v", tt.top, tt.bottom, got, tt.want)
		}
	}
}

func TestChunkWriterFlushesEverything(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	payload := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteAt(2, 3, payload)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[3;2H"+payload || cw.Len() != 0 {
		t.Errorf("flushed %d bytes, buffer left %d", out.Len(), cw.Len())
	}
}

func TestMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(10, 4, 10, 8)
	c.SetOffset(2, 1)
	var buf bytes.Buffer
	_ = c.Render(&buf)

	// Terminal row 3, columns 4..6 are canvas row 1, columns 1..3.
	c.MarkTextDirty(4, 3, 3)
	c.MarkTextDirty(1, 99, 5) // outside the canvas
	buf.Reset()
	_ = c.Render(&buf)
	if n := strings.Count(buf.String(), "H"); n != 3 {
		t.Errorf("repainted %d cells, want 3: %q", n, buf.String())
	}
	if !strings.HasPrefix(buf.String(), "\033[3;4H") {
		t.Errorf("first repainted cell: %q", buf.String())
	}
}
