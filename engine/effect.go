package engine

import "fmt"

// Kind identifies a bonus effect variant
type Kind uint8

const (
	KindSpeed Kind = iota
	KindSize
	KindGap
	KindWallThrough
	KindInverseSteer
	KindEraseAll
)

var kindNames = [...]string{
	KindSpeed:        "speed",
	KindSize:         "size",
	KindGap:          "gap",
	KindWallThrough:  "wall-through",
	KindInverseSteer: "inverse-steer",
	KindEraseAll:     "erase-all",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Effect is one bonus picked up by a player. The concrete types below are the
// only implementations; each carries just the fields its kind needs.
// Values are immutable: aging returns a new value.
type Effect interface {
	Kind() Kind
	// Remaining is the number of global ticks left; zero for EraseAll which is never stored.
	Remaining() int
	aged() Effect
}

// Speed adds Delta sub-steps per tick
type Speed struct {
	Delta int
	Ticks int
}

// Size adds Delta to the radius of new segments
type Size struct {
	Delta int
	Ticks int
}

// Gap makes the first sub-step of each tick jump Hop extra steps, leaving a hole in the trail
type Gap struct {
	Hop   int
	Ticks int
}

// WallThrough turns wall collisions into wrap-around
type WallThrough struct {
	Ticks int
}

// InverseSteer swaps left and right
type InverseSteer struct {
	Ticks int
}

// EraseAll clears every trail down to its head when picked up. It is applied
// once and never stored.
type EraseAll struct{}

func (e Speed) Kind() Kind        { return KindSpeed }
func (e Size) Kind() Kind         { return KindSize }
func (e Gap) Kind() Kind          { return KindGap }
func (e WallThrough) Kind() Kind  { return KindWallThrough }
func (e InverseSteer) Kind() Kind { return KindInverseSteer }
func (e EraseAll) Kind() Kind     { return KindEraseAll }

func (e Speed) Remaining() int        { return e.Ticks }
func (e Size) Remaining() int         { return e.Ticks }
func (e Gap) Remaining() int          { return e.Ticks }
func (e WallThrough) Remaining() int  { return e.Ticks }
func (e InverseSteer) Remaining() int { return e.Ticks }
func (e EraseAll) Remaining() int     { return 0 }

func (e Speed) aged() Effect        { e.Ticks--; return e }
func (e Size) aged() Effect         { e.Ticks--; return e }
func (e Gap) aged() Effect          { e.Ticks--; return e }
func (e WallThrough) aged() Effect  { e.Ticks--; return e }
func (e InverseSteer) aged() Effect { e.Ticks--; return e }
func (e EraseAll) aged() Effect     { return e }

// Modifiers is the sum of a player's active effects for one tick.
type Modifiers struct {
	Speed       int  // sub-steps contributed by Speed effects
	ExtraRadius int  // radius delta contributed by Size effects
	Hop         int  // extra steps on the first sub-step
	WallThrough bool // any WallThrough active
	inversions  int
}

// Add folds one stored effect into m. EraseAll carries no modifier and yields ErrInvalidEffect.
func (m *Modifiers) Add(e Effect) error {
	switch e := e.(type) {
	case Speed:
		m.Speed += e.Delta
	case Size:
		m.ExtraRadius += e.Delta
	case Gap:
		m.Hop += e.Hop
	case WallThrough:
		m.WallThrough = true
	case InverseSteer:
		m.inversions++
	case EraseAll:
		return fmt.Errorf("%w: erase-all has no modifier", ErrInvalidEffect)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidEffect, e)
	}
	return nil
}

// Inverted reports whether steering is swapped (odd number of InverseSteer)
func (m Modifiers) Inverted() bool {
	return m.inversions%2 == 1
}

// validEffect checks that a timed effect has a positive lifetime
func validEffect(e Effect) error {
	if e == nil {
		return fmt.Errorf("%w: nil effect", ErrInvalidEffect)
	}
	if e.Kind() == KindEraseAll {
		return nil
	}
	if e.Remaining() <= 0 {
		return fmt.Errorf("%w: %s needs a positive lifetime, got %d", ErrInvalidEffect, e.Kind(), e.Remaining())
	}
	return nil
}
