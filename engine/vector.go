// Package engine implements the curvy-snake simulation core: trail bodies made of
// circles, per-tick movement and collision, bonus effects and the bonus field.
//
// The package holds no global state. A Round owns the arena bounds, the player
// roster and the bonus field; every operation reaches them through it.
package engine

import "fmt"

// Vector is an integer 2D point or displacement
type Vector struct {
	X int
	Y int
}

// Vec is shorthand for Vector{X: x, Y: y}
func Vec(x, y int) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k
func (v Vector) Scale(k int) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// DistanceSq returns the squared euclidean distance between v and o.
// Collision tests compare squared values so they stay in integers.
func (v Vector) DistanceSq(o Vector) int {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// IsZero reports whether both components are zero
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}
