package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Death records a player that collided during a step
type Death struct {
	Player uuid.UUID
	Name   string
	Cause  DeathCause
	At     Circle
}

// Frame is what one global tick changed. Draw everything in Draw before
// erasing Erase; Spawned bonuses are drawn as part of Draw.
type Frame struct {
	Tick    int
	Draw    []Circle
	Erase   []Circle
	Spawned []Bonus
	Deaths  []Death
}

// Round owns the arena, the player roster and the bonus field of one game.
// It is not safe for concurrent use.
type Round struct {
	cfg     Config
	arena   Arena
	players []*Player
	field   *BonusField
	rng     *rand.Rand
	logger  *log.Logger
	tick    int

	fieldSet bool
}

// RoundOption configures a Round
type RoundOption func(*Round)

// WithField uses f as the bonus field; nil leaves the round without one
func WithField(f *BonusField) RoundOption {
	return func(r *Round) {
		r.field = f
		r.fieldSet = true
	}
}

// WithLogger sends round events to l
func WithLogger(l *log.Logger) RoundOption {
	return func(r *Round) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRand sets the random source used for spawns and start positions
func WithRand(rng *rand.Rand) RoundOption {
	return func(r *Round) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// NewRound creates an empty round
func NewRound(cfg Config, opts ...RoundOption) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Round{
		cfg:    cfg,
		arena:  cfg.Arena,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = cfg.newRand()
	}
	if !r.fieldSet {
		r.field = NewBonusField(nil, cfg)
		r.field.rng = r.rng
	}
	return r, nil
}

// AddPlayer puts a new player with a one-segment trail at start.
// heading is in degrees and may be negative.
func (r *Round) AddPlayer(name string, start Vector, heading int) (*Player, error) {
	if !r.arena.Inside(start) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfArena, start)
	}
	if heading < -fullCircle || heading > fullCircle {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHeading, heading)
	}
	p := &Player{
		ID:      uuid.New(),
		Name:    name,
		heading: normalizeHeading(heading),
		trail:   NewTrail(start, r.cfg.BaseRadius),
		alive:   true,
		round:   r,
	}
	p.trail.owner = p.ID
	r.players = append(r.players, p)
	return p, nil
}

// RandomStart picks a point at least margin away from every wall that no live
// trail covers, and a heading aiming roughly at the arena centre.
// ok is false when the attempt budget ran out.
func (r *Round) RandomStart(margin int) (start Vector, heading int, ok bool) {
	w := r.arena.Width() - 2*margin
	h := r.arena.Height() - 2*margin
	if w < 2 || h < 2 {
		return Vector{}, 0, false
	}
	for i := 0; i < r.cfg.SpawnAttempts; i++ {
		p := Vec(r.arena.Min.X+margin+1+r.rng.Intn(w-1), r.arena.Min.Y+margin+1+r.rng.Intn(h-1))
		if !r.IsFree(NewCircle(p, r.cfg.BaseRadius*2)) {
			continue
		}
		return p, r.headingTowards(p, r.arena.Center()), true
	}
	return Vector{}, 0, false
}

// headingTowards returns the multiple of the turn angle closest to the direction from p to target
func (r *Round) headingTowards(p, target Vector) int {
	d := target.Sub(p)
	if d.IsZero() {
		return 0
	}
	best, bestDot := 0, math.MinInt
	step := max(r.cfg.TurnAngle, 1)
	for h := 0; h < fullCircle; h += step {
		v := HeadingVector(h, 1000)
		if dot := v.X*d.X + v.Y*d.Y; dot > bestDot {
			best, bestDot = h, dot
		}
	}
	return best
}

// Players returns the roster in join order, dead players included
func (r *Round) Players() []*Player {
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// Alive returns the players still in play, in join order
func (r *Round) Alive() []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.alive {
			out = append(out, p)
		}
	}
	return out
}

// Player finds a player by id
func (r *Round) Player(id uuid.UUID) (*Player, bool) {
	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// bodies is the collision registry: the trails of live players
func (r *Round) bodies() []*Trail {
	out := make([]*Trail, 0, len(r.players))
	for _, p := range r.players {
		if p.alive {
			out = append(out, p.trail)
		}
	}
	return out
}

// Step runs one global tick: every live player moves in join order, then a
// bonus may spawn, then all effects age. A missing entry in turns means TurnNone.
//
// Collisions are not errors here, they are reported in Frame.Deaths. Any other
// error stops the step and is returned with the partial frame.
func (r *Round) Step(turns map[uuid.UUID]Turn) (Frame, error) {
	f := Frame{Tick: r.tick + 1}
	if r.field == nil {
		return f, ErrBonusFieldUnavailable
	}

	for _, p := range r.players {
		if !p.alive {
			continue
		}
		res, err := p.Tick(turns[p.ID])
		f.Draw = append(f.Draw, res.Added...)
		f.Erase = append(f.Erase, res.Removed...)
		if err == nil {
			continue
		}
		var ce *CollisionError
		if !errors.As(err, &ce) {
			return f, fmt.Errorf("tick %s: %w", p.Name, err)
		}
		f.Deaths = append(f.Deaths, Death{Player: p.ID, Name: p.Name, Cause: ce.Cause, At: ce.At})
		r.logger.Printf("[INFO] player %s died: %v", p.Name, ce)
	}

	if b := r.field.TrySpawn(r.arena, r.cfg.MaxBonuses, r.cfg.SpawnProbability, r.IsFree); b != nil {
		f.Spawned = append(f.Spawned, *b)
		f.Draw = append(f.Draw, b.Shape)
	}

	r.DecrementEffects()
	r.tick++
	return f, nil
}

// EraseAll cuts every trail down to its head and returns the removed segments.
// Dead players are included: their trails are still on screen.
func (r *Round) EraseAll() []Circle {
	var removed []Circle
	for _, p := range r.players {
		removed = append(removed, p.trail.Reset()...)
	}
	r.logger.Printf("[INFO] erase-all removed %d segments", len(removed))
	return removed
}

// IsFree reports whether c overlaps no live trail
func (r *Round) IsFree(c Circle) bool {
	for _, p := range r.players {
		if p.alive && p.trail.Intersects(c) {
			return false
		}
	}
	return true
}

// DecrementEffects ages the effects of every live player
func (r *Round) DecrementEffects() {
	for _, p := range r.players {
		if p.alive {
			p.DecrementEffects()
		}
	}
}

// Over reports whether the round has ended: nobody is left, or a single
// survivor remains from a round of two or more.
func (r *Round) Over() bool {
	alive := len(r.Alive())
	if alive == 0 {
		return true
	}
	return len(r.players) >= 2 && alive == 1
}

// Winner returns the last player standing once the round is over
func (r *Round) Winner() (*Player, bool) {
	if !r.Over() || len(r.players) < 2 {
		return nil, false
	}
	alive := r.Alive()
	if len(alive) != 1 {
		return nil, false
	}
	return alive[0], true
}

// Field returns the bonus field, nil when the round has none
func (r *Round) Field() *BonusField {
	return r.field
}

// Arena returns the arena bounds
func (r *Round) Arena() Arena {
	return r.arena
}

// Config returns the parameters the round was created with
func (r *Round) Config() Config {
	return r.cfg
}

// Tick returns the number of completed steps
func (r *Round) Tick() int {
	return r.tick
}
