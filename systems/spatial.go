// Package systems provides the combat simulation systems: spatial indexing,
// enemy behaviors, projectile dispatch, damage resolution, collision handling
// and spawn scheduling.
package systems

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid buckets items by position in a uniform grid over a square world.
type SpatialGrid[T any] struct {
	cellSize float64
	cols     int
	size     float64
	cells    [][]T // flat grid of item lists
	logger   *slog.Logger
	dropped  int
}

// NewSpatialGrid creates a spatial grid covering a square world of the given size.
func NewSpatialGrid[T any](size, cellSize float64, logger *slog.Logger) *SpatialGrid[T] {
	if logger == nil {
		logger = slog.Default()
	}
	cols := int(size/cellSize) + 1

	cells := make([][]T, cols*cols)
	for i := range cells {
		cells[i] = make([]T, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid[T]{
		cellSize: cellSize,
		cols:     cols,
		size:     size,
		cells:    cells,
		logger:   logger,
	}
}

// Clear removes all items from the grid without releasing bucket storage.
func (g *SpatialGrid[T]) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item at the given position.
// Items with a non-finite coordinate are skipped and logged.
func (g *SpatialGrid[T]) Insert(item T, pos r2.Vec) {
	if !finite(pos) {
		g.dropped++
		g.logger.Warn("spatial grid: dropping non-finite insert", "x", pos.X, "y", pos.Y)
		return
	}
	idx := g.cellIndex(pos)
	g.cells[idx] = append(g.cells[idx], item)
}

// Retrieve returns the items in the 3x3 block of cells around pos.
func (g *SpatialGrid[T]) Retrieve(pos r2.Vec) []T {
	return g.RetrieveInto(nil, pos)
}

// RetrieveInto appends the items in the 3x3 block of cells around pos to dst.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid[T]) RetrieveInto(dst []T, pos r2.Vec) []T {
	return g.retrieve(dst, pos, 1)
}

// RetrieveRadius appends the items of every cell a circle of the given radius
// around pos can touch. Used for searches wider than one cell.
func (g *SpatialGrid[T]) RetrieveRadius(dst []T, pos r2.Vec, radius float64) []T {
	span := int(math.Ceil(radius / g.cellSize))
	if span < 1 {
		span = 1
	}
	return g.retrieve(dst, pos, span)
}

func (g *SpatialGrid[T]) retrieve(dst []T, pos r2.Vec, span int) []T {
	if !finite(pos) {
		g.dropped++
		g.logger.Warn("spatial grid: dropping non-finite query", "x", pos.X, "y", pos.Y)
		return dst
	}
	col, row := g.cellCoords(pos)
	for dr := -span; dr <= span; dr++ {
		r := row + dr
		if r < 0 || r >= g.cols {
			continue
		}
		for dc := -span; dc <= span; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			dst = append(dst, g.cells[r*g.cols+c]...)
		}
	}
	return dst
}

// Dropped returns how many non-finite inserts and queries were skipped.
func (g *SpatialGrid[T]) Dropped() int {
	return g.dropped
}

// CellOf returns the clamped cell coordinates of pos.
func (g *SpatialGrid[T]) CellOf(pos r2.Vec) (col, row int) {
	return g.cellCoords(pos)
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid[T]) cellIndex(pos r2.Vec) int {
	col, row := g.cellCoords(pos)
	return row*g.cols + col
}

func (g *SpatialGrid[T]) cellCoords(pos r2.Vec) (col, row int) {
	col = int(math.Floor(pos.X / g.cellSize))
	row = int(math.Floor(pos.Y / g.cellSize))

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.cols {
		row = g.cols - 1
	}
	return col, row
}
