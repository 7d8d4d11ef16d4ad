package main

import (
	"math"
	"math/rand"

	"github.com/collombj/curvy-snake/engine"
	"github.com/google/uuid"
)

// botNames is the pool of names handed to AI players
var botNames = []string{
	"Viper", "Cobra", "Mamba", "Python", "Anaconda",
	"Sidewinder", "Taipan", "Boomslang", "Krait", "Adder",
}

// BotBonusSeekRadius is how far a bot looks for a bonus to chase
const BotBonusSeekRadius = 150

// Bot tracks per-player AI state
type Bot struct {
	PlayerID    uuid.UUID
	wander      engine.Turn // turn held while wandering
	wanderTicks int         // ticks remaining before picking a new wander turn
}

// BotManager steers every player of the current round.
// It is driven by the game loop goroutine only.
type BotManager struct {
	bots []*Bot
	rng  *rand.Rand
}

// NewBotManager creates an empty manager
func NewBotManager(rng *rand.Rand) *BotManager {
	return &BotManager{rng: rng}
}

// Reset forgets every bot; called when a new round starts
func (bm *BotManager) Reset() {
	bm.bots = nil
}

// Add starts steering the player with the given id
func (bm *BotManager) Add(id uuid.UUID) {
	bm.bots = append(bm.bots, &Bot{PlayerID: id, wanderTicks: bm.randomWanderDuration()})
}

// Turns decides the command of every live bot for the next step
func (bm *BotManager) Turns(r *engine.Round) map[uuid.UUID]engine.Turn {
	turns := make(map[uuid.UUID]engine.Turn, len(bm.bots))
	for _, bot := range bm.bots {
		p, ok := r.Player(bot.PlayerID)
		if !ok || !p.Alive() {
			continue
		}
		turns[bot.PlayerID] = bm.decide(bot, r, p)
	}
	return turns
}

// decide applies priority-based AI rules and returns the command to send.
// The command already accounts for an active inverse-steer.
func (bm *BotManager) decide(bot *Bot, r *engine.Round, p *engine.Player) engine.Turn {
	mods, err := p.Modifiers()
	if err != nil {
		return engine.TurnNone
	}
	cfg := r.Config()

	// --- Priority 1: chase a nearby bonus, otherwise wander ---
	want := bot.wander
	if target, ok := nearestBonus(r, p.Head().Center); ok {
		want = steerToward(p, target, cfg.TurnAngle)
	} else {
		bot.wanderTicks--
		if bot.wanderTicks <= 0 {
			bot.wander = bm.randomWanderTurn()
			bot.wanderTicks = bm.randomWanderDuration()
			want = bot.wander
		}
	}

	// --- Priority 2: danger avoidance, keep the wish only if its path is clear ---
	longest := BotLookAheadTicks * max(cfg.BaseSpeed+mods.Speed, 1)
	if freeRun(r, p, mods, turnDelta(want, cfg.TurnAngle)) < longest {
		best, bestRun := want, -1
		for _, t := range []engine.Turn{engine.TurnNone, engine.TurnLeft, engine.TurnRight} {
			if run := freeRun(r, p, mods, turnDelta(t, cfg.TurnAngle)); run > bestRun {
				best, bestRun = t, run
			}
		}
		if best != want {
			bot.wander = best
			bot.wanderTicks = bm.randomWanderDuration()
		}
		want = best
	}

	if mods.Inverted() {
		return flip(want)
	}
	return want
}

// freeRun counts how many sub-steps the player survives when holding a turn
// for BotLookAheadTicks ticks. Probes closer than a diameter to the current
// head are skipped: they overlap the newest segments by construction.
func freeRun(r *engine.Round, p *engine.Player, mods engine.Modifiers, delta int) int {
	cfg := r.Config()
	arena := r.Arena()
	speed := max(cfg.BaseSpeed+mods.Speed, 1)
	radius := max(cfg.BaseRadius+mods.ExtraRadius, 1)
	start := p.Head().Center
	near := 4 * radius * radius

	pos, heading, run := start, p.Heading(), 0
	for tick := 0; tick < BotLookAheadTicks; tick++ {
		heading += delta
		for s := 0; s < speed; s++ {
			pos = pos.Add(engine.HeadingVector(heading, cfg.StepSize))
			if !arena.Inside(pos) {
				if !mods.WallThrough {
					return run
				}
				pos = arena.Wrap(pos)
			}
			if pos.DistanceSq(start) >= near && !r.IsFree(engine.NewCircle(pos, radius)) {
				return run
			}
			run++
		}
	}
	return run
}

// nearestBonus finds the closest bonus within BotBonusSeekRadius
func nearestBonus(r *engine.Round, from engine.Vector) (engine.Vector, bool) {
	f := r.Field()
	if f == nil {
		return engine.Vector{}, false
	}
	best, bestDist := engine.Vector{}, BotBonusSeekRadius*BotBonusSeekRadius
	found := false
	for _, b := range f.Bonuses() {
		if d := from.DistanceSq(b.Shape.Center); d < bestDist {
			best, bestDist, found = b.Shape.Center, d, true
		}
	}
	return best, found
}

// steerToward returns the turn bringing the heading closer to target
func steerToward(p *engine.Player, target engine.Vector, turnAngle int) engine.Turn {
	d := target.Sub(p.Head().Center)
	if d.IsZero() {
		return engine.TurnNone
	}
	want := math.Atan2(float64(d.Y), float64(d.X)) * 180 / math.Pi
	diff := normalizeAngle(want - float64(p.Heading()))
	switch {
	case math.Abs(diff) <= float64(turnAngle)/2:
		return engine.TurnNone
	case diff > 0:
		return engine.TurnLeft
	default:
		return engine.TurnRight
	}
}

// turnDelta is the heading change a turn produces per tick
func turnDelta(t engine.Turn, angle int) int {
	switch t {
	case engine.TurnLeft:
		return angle
	case engine.TurnRight:
		return -angle
	default:
		return 0
	}
}

// flip swaps left and right
func flip(t engine.Turn) engine.Turn {
	switch t {
	case engine.TurnLeft:
		return engine.TurnRight
	case engine.TurnRight:
		return engine.TurnLeft
	default:
		return t
	}
}

// --- helpers ---

// randomWanderDuration returns a tick count in [BotWanderMinTicks, BotWanderMaxTicks]
func (bm *BotManager) randomWanderDuration() int {
	return BotWanderMinTicks + bm.rng.Intn(BotWanderMaxTicks-BotWanderMinTicks+1)
}

func (bm *BotManager) randomWanderTurn() engine.Turn {
	if bm.rng.Intn(100) < BotWanderStraightPc {
		return engine.TurnNone
	}
	if bm.rng.Intn(2) == 0 {
		return engine.TurnLeft
	}
	return engine.TurnRight
}

// normalizeAngle wraps degrees into (-180, 180]
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a <= -180 {
		a += 360
	}
	return a
}
