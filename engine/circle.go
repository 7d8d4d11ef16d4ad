package engine

import "fmt"

// Circle is one body segment or one bonus shape
type Circle struct {
	Center Vector
	Radius int
}

// NewCircle builds a circle, clamping a negative radius to zero
func NewCircle(center Vector, radius int) Circle {
	if radius < 0 {
		radius = 0
	}
	return Circle{Center: center, Radius: radius}
}

// Intersects reports whether the two discs overlap.
// Touching discs (distance == r1+r2) do not intersect.
func (c Circle) Intersects(o Circle) bool {
	sum := c.Radius + o.Radius
	return c.Center.DistanceSq(o.Center) < sum*sum
}

func (c Circle) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Center.X, c.Center.Y, c.Radius)
}
