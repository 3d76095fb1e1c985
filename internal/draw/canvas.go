package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Half-block characters used to pack two pixels into one terminal cell.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockFull      = '█'
)

// cell is one rendered terminal cell. fg colours the glyph, bg the other half.
type cell struct {
	ch rune
	fg Ink
	bg Ink
}

// stale never matches a real cell, forcing a repaint.
var stale = cell{ch: -1}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. It maps a logical field with y pointing up onto terminal
// pixels using one uniform scale, so disks stay round, and centres the
// field inside the canvas.
//
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int   // Terminal columns covered by the canvas
	termHeight     int   // Terminal rows covered by the canvas
	subPixelHeight int   // termHeight * 2
	pixels         []Ink // Flat slice: [y * termWidth + x]
	cells          []cell

	logicalWidth  float64
	logicalHeight float64
	scale         float64 // Pixels per logical unit on both axes
	originX       float64 // Pixel column of logical x = 0
	originY       float64 // Pixel row of logical y = logicalHeight

	// 0-based terminal offsets of the canvas' top-left cell.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas of termWidth x termHeight cells showing a
// logicalWidth x logicalHeight field.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. Changing dimensions forces a full repaint.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Ink, c.subPixelHeight*termWidth)
		c.cells = make([]cell, termWidth*termHeight)
		c.ForceRedraw()
	}

	c.scale = math.Min(float64(c.termWidth)/c.logicalWidth, float64(c.subPixelHeight)/c.logicalHeight)
	c.originX = (float64(c.termWidth) - c.logicalWidth*c.scale) / 2
	c.originY = (float64(c.subPixelHeight) - c.logicalHeight*c.scale) / 2
}

// SetOffset sets the 0-based terminal column and row of the canvas' top-left cell.
// Moving the canvas forces a full repaint.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// TerminalWidth returns the number of terminal columns the canvas covers.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the number of terminal rows the canvas covers.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Scale returns the number of pixels per logical unit.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// Clear resets all pixels. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.cells {
		c.cells[i] = stale
	}
}

// MarkTextDirty marks cells overwritten by text so the next Render
// repaints them. col and row are 1-based terminal coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1 - c.offsetRow
	if r < 0 || r >= c.termHeight {
		return
	}
	start := max(col-1-c.offsetCol, 0)
	end := min(col-1-c.offsetCol+width, c.termWidth)
	for i := start; i < end; i++ {
		c.cells[r*c.termWidth+i] = stale
	}
}

// setPixel sets a pixel at canvas pixel coordinates.
func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// toPixel maps logical coordinates to fractional pixel coordinates.
func (c *Canvas) toPixel(x, y float64) (px, py float64) {
	return c.originX + x*c.scale, c.originY + (c.logicalHeight-y)*c.scale
}

// Set sets the pixel containing the logical point (x, y).
func (c *Canvas) Set(x, y float64, ink Ink) {
	px, py := c.toPixel(x, y)
	c.setPixel(int(math.Floor(px)), int(math.Floor(py)), ink)
}

// FillCircle fills a disk given in logical coordinates. The pixel holding
// the centre is always set so tiny disks stay visible.
func (c *Canvas) FillCircle(x, y, radius float64, ink Ink) {
	cx, cy := c.toPixel(x, y)
	r := radius * c.scale
	r2 := r * r

	c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), ink)

	for py := int(math.Floor(cy - r)); py <= int(math.Ceil(cy+r)); py++ {
		dy := float64(py) + 0.5 - cy
		for px := int(math.Floor(cx - r)); px <= int(math.Ceil(cx+r)); px++ {
			dx := float64(px) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				c.setPixel(px, py, ink)
			}
		}
	}
}

// StrokeRect outlines the logical rectangle [x0, x1] x [y0, y1].
func (c *Canvas) StrokeRect(x0, y0, x1, y1 float64, ink Ink) {
	left, top := c.toPixel(x0, y1)
	right, bottom := c.toPixel(x1, y0)
	l, t := int(math.Floor(left)), int(math.Floor(top))
	r, b := int(math.Ceil(right))-1, int(math.Ceil(bottom))-1

	for x := l; x <= r; x++ {
		c.setPixel(x, t, ink)
		c.setPixel(x, b, ink)
	}
	for y := t; y <= b; y++ {
		c.setPixel(l, y, ink)
		c.setPixel(r, y, ink)
	}
}

// At returns the ink of the pixel containing the logical point (x, y).
func (c *Canvas) At(x, y float64) Ink {
	px, py := c.toPixel(x, y)
	ix, iy := int(math.Floor(px)), int(math.Floor(py))
	if ix < 0 || ix >= c.termWidth || iy < 0 || iy >= c.subPixelHeight {
		return InkNone
	}
	return c.pixels[iy*c.termWidth+ix]
}

// compose turns the two pixels of a terminal cell into a glyph and colours.
func compose(top, bottom Ink) cell {
	switch {
	case top == InkNone && bottom == InkNone:
		return cell{ch: ' '}
	case bottom == InkNone:
		return cell{ch: BlockUpperHalf, fg: top}
	case top == InkNone:
		return cell{ch: BlockLowerHalf, fg: bottom}
	case top == bottom:
		return cell{ch: BlockFull, fg: top}
	default:
		return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
	}
}

// Render writes every cell that changed since the last Render to w.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			next := compose(c.pixels[topOffset+col], c.pixels[bottomOffset+col])
			idx := row*c.termWidth + col
			if c.cells[idx] == next {
				continue
			}
			c.cells[idx] = next
			c.writeCell(row, col, next)
		}
	}

	if c.renderBuf.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(w, c.renderBuf.String())
	return err
}

func (c *Canvas) writeCell(row, col int, cl cell) {
	b := &c.renderBuf
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	b.WriteByte('H')

	if cl.fg == InkNone && cl.bg == InkNone {
		b.WriteRune(cl.ch)
		return
	}
	b.WriteString(cl.fg.Foreground())
	if cl.bg != InkNone {
		b.WriteString(cl.bg.Background())
	}
	b.WriteRune(cl.ch)
	b.WriteString(ColorReset)
}
