package engine

import (
	"strings"

	"github.com/google/uuid"
)

// Stride describes one advance of a trail
type Stride struct {
	Direction   Vector // displacement of a single step
	ExtraRadius int    // added to the base radius of the new head
	Hop         int    // extra steps taken at once, leaving a visible gap
	WallThrough bool   // wrap around instead of dying on walls
}

// Trail is the positional history of one player: circles ordered oldest first,
// the last one being the head. It is never empty.
type Trail struct {
	owner      uuid.UUID
	baseRadius int
	segments   []Circle
	grew       bool // last advance kept the tail
}

// NewTrail starts a trail with a single segment at start
func NewTrail(start Vector, baseRadius int) *Trail {
	if baseRadius < 1 {
		baseRadius = 1
	}
	return &Trail{
		baseRadius: baseRadius,
		segments:   []Circle{NewCircle(start, baseRadius)},
	}
}

// Owner returns the id of the player the trail belongs to
func (t *Trail) Owner() uuid.UUID {
	return t.owner
}

// Head returns a copy of the newest segment
func (t *Trail) Head() Circle {
	return t.segments[len(t.segments)-1]
}

// Tail returns a copy of the oldest segment
func (t *Trail) Tail() Circle {
	return t.segments[0]
}

// Len returns the number of segments
func (t *Trail) Len() int {
	return len(t.segments)
}

// Segments returns a copy of the segments, oldest first
func (t *Trail) Segments() []Circle {
	out := make([]Circle, len(t.segments))
	copy(out, t.segments)
	return out
}

// Intersects reports whether c overlaps any segment
func (t *Trail) Intersects(c Circle) bool {
	for _, s := range t.segments {
		if s.Intersects(c) {
			return true
		}
	}
	return false
}

// Advance moves the head by one stride. The tentative head is validated
// against the arena walls and every trail in bodies (the receiver included)
// before it is committed; a rejected head leaves the trail untouched and
// yields a *CollisionError.
//
// Every other committed advance evicts the oldest segment, which is returned
// so the caller can erase it; otherwise the result is nil and the trail grew.
func (t *Trail) Advance(s Stride, arena Arena, bodies []*Trail) (*Circle, error) {
	extra := s.ExtraRadius
	if minExtra := -(t.baseRadius - 1); extra < minExtra {
		extra = minExtra
	}
	hop := s.Hop
	if hop < 0 {
		hop = 0
	}

	head := NewCircle(t.Head().Center.Add(s.Direction.Scale(hop+1)), t.baseRadius+extra)

	if !arena.Inside(head.Center) {
		if !s.WallThrough {
			return nil, &CollisionError{Cause: CauseWall, At: head, Player: t.owner}
		}
		head.Center = arena.Wrap(head.Center)
	}

	for _, b := range bodies {
		if b == nil {
			continue
		}
		if b == t {
			if t.hitsSelf(head) {
				return nil, &CollisionError{Cause: CauseSelf, At: head, Player: t.owner}
			}
			continue
		}
		if b.Intersects(head) {
			return nil, &CollisionError{Cause: CauseOther, At: head, Player: t.owner, Other: b.owner}
		}
	}

	t.segments = append(t.segments, head)
	t.grew = !t.grew
	if t.grew {
		return nil, nil
	}
	tail := t.segments[0]
	t.segments = t.segments[1:]
	return &tail, nil
}

// hitsSelf tests head against the trail, skipping the newest head.Radius
// segments: they touch the head by construction.
func (t *Trail) hitsSelf(head Circle) bool {
	limit := len(t.segments) - head.Radius
	for i := 0; i < limit; i++ {
		if t.segments[i].Intersects(head) {
			return true
		}
	}
	return false
}

// Reset keeps only the head and returns the removed segments, oldest first
func (t *Trail) Reset() []Circle {
	n := len(t.segments)
	if n == 1 {
		return nil
	}
	removed := make([]Circle, n-1)
	copy(removed, t.segments[:n-1])
	t.segments = []Circle{t.segments[n-1]}
	return removed
}

func (t *Trail) String() string {
	var b strings.Builder
	b.WriteString("Trail: ")
	for i, s := range t.segments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	return b.String()
}
