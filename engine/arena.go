package engine

// Arena is the rectangular playing field. Its boundary lines are walls:
// a point is inside only when it lies strictly between Min and Max on both axes.
type Arena struct {
	Min Vector
	Max Vector
}

// NewArena returns the arena spanning (0,0) to (width,height)
func NewArena(width, height int) Arena {
	return Arena{Min: Vec(0, 0), Max: Vec(width, height)}
}

// Width of the arena
func (a Arena) Width() int { return a.Max.X - a.Min.X }

// Height of the arena
func (a Arena) Height() int { return a.Max.Y - a.Min.Y }

// Center returns the middle point of the arena
func (a Arena) Center() Vector {
	return Vec(a.Min.X+a.Width()/2, a.Min.Y+a.Height()/2)
}

// Inside reports whether p lies strictly within the walls
func (a Arena) Inside(p Vector) bool {
	return p.X > a.Min.X && p.X < a.Max.X && p.Y > a.Min.Y && p.Y < a.Max.Y
}

// Wrap teleports a point that crossed a wall to the opposite side, one unit
// inside it, so the wrapped point never lands on a boundary and re-triggers.
// Each axis is handled independently; points already inside are unchanged.
func (a Arena) Wrap(p Vector) Vector {
	switch {
	case p.X <= a.Min.X:
		p.X = a.Max.X - 1
	case p.X >= a.Max.X:
		p.X = a.Min.X + 1
	}
	switch {
	case p.Y <= a.Min.Y:
		p.Y = a.Max.Y - 1
	case p.Y >= a.Max.Y:
		p.Y = a.Min.Y + 1
	}
	return p
}

// valid reports whether the arena has room for at least one interior point
func (a Arena) valid() bool {
	return a.Width() >= 2 && a.Height() >= 2
}
