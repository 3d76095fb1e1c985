package physics

import "math"

// maxGridCells bounds the grid to maxGridCells x maxGridCells cells so tiny
// disks in a large field do not explode memory.
const maxGridCells = 64

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded field. Bodies are inserted by position and index, then nearby
// bodies can be queried via a 3x3 neighbourhood lookup.
//
// Cell size must be >= the largest sum of radii of any two bodies so that
// every overlapping pair shares a 3x3 neighbourhood. Positions outside the
// field clamp to the edge cells; clamping never moves two points further
// apart in cell space, so off-field bodies are still found.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of bodies that fall within a grid cell.
// The slice is reused between steps (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering a worldW x worldH field.
func NewSpatialGrid(worldW, worldH, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(worldW, worldH, cellSize)
	return g
}

// gridCellSize picks a cell size that covers every pair of disks with
// radius up to maxRadius while keeping the cell count bounded.
func gridCellSize(worldW, worldH, maxRadius float64) float64 {
	cell := 2 * maxRadius
	if floor := math.Max(worldW, worldH) / maxGridCells; cell < floor {
		cell = floor
	}
	return cell
}

// Reset resizes the grid and drops all items.
func (g *SpatialGrid) Reset(worldW, worldH, cellSize float64) {
	cols := int(math.Ceil(worldW / cellSize))
	rows := int(math.Ceil(worldH / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g.cellSize = cellSize
	g.invCellSize = 1 / cellSize
	g.cols = cols
	g.rows = rows
	g.cells = make([]gridCell, cols*rows)
}

// CellSize returns the edge length of a cell.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighbourhood
// around the given position. Items are visited cell by cell, not in index
// order. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		rowOffset := r * g.cols
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts field coordinates to grid cell coordinates, clamping
// to the valid range. NaN clamps to cell 0.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	return clampCell(x*g.invCellSize, g.cols), clampCell(y*g.invCellSize, g.rows)
}

func clampCell(v float64, n int) int {
	if !(v >= 0) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
