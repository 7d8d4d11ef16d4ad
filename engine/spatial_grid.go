package engine

import "github.com/google/uuid"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// gridEntry holds one placed shape in a cell
type gridEntry struct {
	id    uuid.UUID
	shape Circle
}

// spatialGrid is a hash grid for fast proximity queries. Each shape is stored
// in the cell of its centre; queries widen their range by the largest radius seen.
type spatialGrid struct {
	cells     map[cellKey][]gridEntry
	cellSize  int
	maxRadius int
}

// newSpatialGrid creates an empty spatial grid
func newSpatialGrid(cellSize int) *spatialGrid {
	if cellSize < 1 {
		cellSize = 1
	}
	return &spatialGrid{
		cells:    make(map[cellKey][]gridEntry),
		cellSize: cellSize,
	}
}

func (g *spatialGrid) keyFor(p Vector) cellKey {
	return cellKey{
		cx: floorDiv(p.X, g.cellSize),
		cy: floorDiv(p.Y, g.cellSize),
	}
}

// insert adds a shape to the grid
func (g *spatialGrid) insert(id uuid.UUID, shape Circle) {
	k := g.keyFor(shape.Center)
	g.cells[k] = append(g.cells[k], gridEntry{id: id, shape: shape})
	if shape.Radius > g.maxRadius {
		g.maxRadius = shape.Radius
	}
}

// remove drops the entry with the given id from the cell of shape
func (g *spatialGrid) remove(id uuid.UUID, shape Circle) {
	k := g.keyFor(shape.Center)
	entries := g.cells[k]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		break
	}
	if len(entries) == 0 {
		delete(g.cells, k)
		return
	}
	g.cells[k] = entries
}

// intersecting returns the ids of every stored shape overlapping c
func (g *spatialGrid) intersecting(c Circle) []uuid.UUID {
	var results []uuid.UUID
	reach := c.Radius + g.maxRadius
	minCX := floorDiv(c.Center.X-reach, g.cellSize)
	maxCX := floorDiv(c.Center.X+reach, g.cellSize)
	minCY := floorDiv(c.Center.Y-reach, g.cellSize)
	maxCY := floorDiv(c.Center.Y+reach, g.cellSize)

	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, e := range g.cells[cellKey{cx, cy}] {
				if e.shape.Intersects(c) {
					results = append(results, e.id)
				}
			}
		}
	}
	return results
}

// clear resets all cells
func (g *spatialGrid) clear() {
	g.cells = make(map[cellKey][]gridEntry)
	g.maxRadius = 0
}

// floorDiv divides rounding toward negative infinity so cells left of the origin get their own keys
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
