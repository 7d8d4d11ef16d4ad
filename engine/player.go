package engine

import (
	"math"

	"github.com/google/uuid"
)

// Turn is the steering command for one tick
type Turn int8

const (
	TurnNone Turn = iota
	TurnLeft
	TurnRight
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "none"
	}
}

// inverse swaps left and right
func (t Turn) inverse() Turn {
	switch t {
	case TurnLeft:
		return TurnRight
	case TurnRight:
		return TurnLeft
	default:
		return t
	}
}

// TickResult lists what one player tick changed on screen.
// Draw Added before erasing Removed: a segment added early in a tick can be
// erased by a later sub-step of the same tick.
type TickResult struct {
	Added   []Circle
	Removed []Circle
}

// Player steers one trail and carries the bonuses it picked up
type Player struct {
	ID   uuid.UUID
	Name string

	heading int // degrees in [0, 360)
	trail   *Trail
	effects []Effect
	alive   bool
	round   *Round
}

// Alive reports whether the player is still in the round
func (p *Player) Alive() bool {
	return p.alive
}

// Heading returns the direction of travel in degrees, within [0, 360)
func (p *Player) Heading() int {
	return p.heading
}

// Trail returns the player's body
func (p *Player) Trail() *Trail {
	return p.trail
}

// Head returns a copy of the newest segment
func (p *Player) Head() Circle {
	return p.trail.Head()
}

// Effects returns a copy of the active effects
func (p *Player) Effects() []Effect {
	out := make([]Effect, len(p.effects))
	copy(out, p.effects)
	return out
}

// Modifiers sums the active effects
func (p *Player) Modifiers() (Modifiers, error) {
	var m Modifiers
	for _, e := range p.effects {
		if err := m.Add(e); err != nil {
			return Modifiers{}, err
		}
	}
	return m, nil
}

// Tick runs one global tick for this player: aggregate the active effects,
// steer, then advance the trail once per unit of speed, picking up bonuses
// after every sub-step. Only the first sub-step uses the gap hop.
//
// A *CollisionError kills the player; the result still holds what the earlier
// sub-steps committed.
func (p *Player) Tick(turn Turn) (TickResult, error) {
	var res TickResult
	r := p.round
	switch {
	case r == nil:
		return res, ErrNoRound
	case !p.alive:
		return res, ErrPlayerDead
	case r.field == nil:
		return res, ErrBonusFieldUnavailable
	}

	mods, err := p.Modifiers()
	if err != nil {
		return res, err
	}
	cfg := r.cfg
	speed := max(cfg.BaseSpeed+mods.Speed, 1)
	hop := min(max(mods.Hop, 0), cfg.MaxHop)

	if mods.Inverted() {
		turn = turn.inverse()
	}
	p.steer(turn, cfg.TurnAngle)

	stride := Stride{
		Direction:   HeadingVector(p.heading, cfg.StepSize),
		ExtraRadius: mods.ExtraRadius,
		Hop:         hop,
		WallThrough: mods.WallThrough,
	}
	bodies := r.bodies()

	for i := 0; i < speed; i++ {
		if i > 0 {
			stride.Hop = 0
		}
		evicted, err := p.trail.Advance(stride, cfg.Arena, bodies)
		if err != nil {
			p.alive = false
			return res, err
		}
		res.Added = append(res.Added, p.trail.Head())
		if evicted != nil {
			res.Removed = append(res.Removed, *evicted)
		}

		for _, b := range r.field.QueryAndRemove(p.trail.Head()) {
			res.Removed = append(res.Removed, b.Shape)
			erased, err := p.Apply(b.Effect)
			if err != nil {
				return res, err
			}
			res.Removed = append(res.Removed, erased...)
			r.logger.Printf("[INFO] player %s picked up %s", p.Name, b.Name)
		}
	}
	return res, nil
}

// Apply gives the player an effect. EraseAll resets every trail of the round
// right away and returns the removed segments; other kinds are stored.
func (p *Player) Apply(e Effect) ([]Circle, error) {
	if err := validEffect(e); err != nil {
		return nil, err
	}
	if e.Kind() == KindEraseAll {
		if p.round == nil {
			return nil, ErrNoRound
		}
		return p.round.EraseAll(), nil
	}
	p.effects = append(p.effects, e)
	return nil, nil
}

// DecrementEffects ages every active effect by one tick and drops the expired ones
func (p *Player) DecrementEffects() {
	kept := make([]Effect, 0, len(p.effects))
	for _, e := range p.effects {
		if e = e.aged(); e.Remaining() > 0 {
			kept = append(kept, e)
		}
	}
	p.effects = kept
}

func (p *Player) steer(turn Turn, angle int) {
	switch turn {
	case TurnLeft:
		p.heading = normalizeHeading(p.heading + angle)
	case TurnRight:
		p.heading = normalizeHeading(p.heading - angle)
	}
}

// normalizeHeading wraps degrees into [0, 360)
func normalizeHeading(h int) int {
	h %= fullCircle
	if h < 0 {
		h += fullCircle
	}
	return h
}

// HeadingVector converts a heading in degrees to a step of the given length.
// Degrees grow clockwise on screen since y points down.
func HeadingVector(heading, step int) Vector {
	rad := float64(heading) * math.Pi / 180
	return Vec(
		int(math.Round(math.Cos(rad)*float64(step))),
		int(math.Round(math.Sin(rad)*float64(step))),
	)
}
