package systems

import (
	"math"
	"slices"
)

// cellKey addresses one cube of the grid.
type cellKey struct {
	X, Y, Z int64
}

// SpatialGrid buckets particle indices into cubes of side cellSize so that
// neighbors closer than cellSize are always in adjacent cells.
// The world is unbounded, so cells live in a map keyed by cube coordinate.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	keys     []cellKey // cell of each inserted particle
}

// NewSpatialGrid creates a grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Clear removes all particles while keeping bucket capacity for reuse.
func (g *SpatialGrid) Clear() {
	// Drop the map when stale empty buckets pile up (particles drifted).
	if len(g.cells) > 4*len(g.keys)+64 {
		g.cells = make(map[cellKey][]int, len(g.keys))
	} else {
		for k, bucket := range g.cells {
			g.cells[k] = bucket[:0]
		}
	}
	g.keys = g.keys[:0]
}

// Build clears the grid and inserts the n particles of a flat xyz buffer.
func (g *SpatialGrid) Build(pos []float64, n int) {
	g.Clear()
	for i := 0; i < n; i++ {
		j := 3 * i
		g.insert(i, pos[j], pos[j+1], pos[j+2])
	}
}

func (g *SpatialGrid) insert(i int, x, y, z float64) {
	k := g.keyOf(x, y, z)
	g.cells[k] = append(g.cells[k], i)
	g.keys = append(g.keys, k)
}

// QueryAfterInto appends to dst every index j > i found in the 27 cells
// around particle i, sorted ascending. Reuse dst across calls to avoid
// allocations. Build must have been called first.
func (g *SpatialGrid) QueryAfterInto(dst []int, i int) []int {
	start := len(dst)
	c := g.keys[i]
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, j := range g.cells[cellKey{c.X + dx, c.Y + dy, c.Z + dz}] {
					if j > i {
						dst = append(dst, j)
					}
				}
			}
		}
	}
	slices.Sort(dst[start:])
	return dst
}

// keyOf returns the cell containing a world position.
func (g *SpatialGrid) keyOf(x, y, z float64) cellKey {
	return cellKey{
		X: int64(math.Floor(x / g.cellSize)),
		Y: int64(math.Floor(y / g.cellSize)),
		Z: int64(math.Floor(z / g.cellSize)),
	}
}
