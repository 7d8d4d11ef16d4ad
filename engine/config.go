package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Default round parameters
const (
	// Arena
	DefaultArenaWidth  = 500
	DefaultArenaHeight = 500

	// Movement
	DefaultBaseSpeed  = 3  // sub-steps per tick
	DefaultBaseRadius = 5  // radius of a segment without Size effects
	DefaultStepSize   = 4  // length of one sub-step; >= 2 keeps a straight trail clear of its own margin
	DefaultTurnAngle  = 15 // degrees per steering tick
	DefaultMaxHop     = 100

	// Bonuses
	DefaultBonusRadius      = DefaultBaseRadius
	DefaultMaxBonuses       = 5
	DefaultSpawnProbability = 0.01 // per global tick
	DefaultSpawnAttempts    = 64   // position samples per spawn before giving up
	DefaultEffectTicks      = 60   // lifetime of a timed bonus
	DefaultGapEffectTicks   = 50
	DefaultSpatialCellSize  = 32

	fullCircle = 360 // degrees
)

// Config holds the plain values a round is played with.
type Config struct {
	Arena Arena

	BaseSpeed  int
	BaseRadius int
	StepSize   int
	TurnAngle  int
	MaxHop     int

	BonusRadius      int
	MaxBonuses       int
	SpawnProbability float64
	SpawnAttempts    int
	CellSize         int // spatial hash cell size of the bonus field

	// Seed feeds the round's random source; zero picks a time based seed.
	Seed int64
}

// DefaultConfig returns the standard round parameters
func DefaultConfig() Config {
	return Config{
		Arena:            NewArena(DefaultArenaWidth, DefaultArenaHeight),
		BaseSpeed:        DefaultBaseSpeed,
		BaseRadius:       DefaultBaseRadius,
		StepSize:         DefaultStepSize,
		TurnAngle:        DefaultTurnAngle,
		MaxHop:           DefaultMaxHop,
		BonusRadius:      DefaultBonusRadius,
		MaxBonuses:       DefaultMaxBonuses,
		SpawnProbability: DefaultSpawnProbability,
		SpawnAttempts:    DefaultSpawnAttempts,
		CellSize:         DefaultSpatialCellSize,
	}
}

// Validate reports the first unusable parameter
func (c Config) Validate() error {
	switch {
	case !c.Arena.valid():
		return fmt.Errorf("%w: arena %s-%s is too small", ErrInvalidConfig, c.Arena.Min, c.Arena.Max)
	case c.BaseSpeed < 1:
		return fmt.Errorf("%w: base speed %d < 1", ErrInvalidConfig, c.BaseSpeed)
	case c.BaseRadius < 1:
		return fmt.Errorf("%w: base radius %d < 1", ErrInvalidConfig, c.BaseRadius)
	case c.StepSize < 1:
		return fmt.Errorf("%w: step size %d < 1", ErrInvalidConfig, c.StepSize)
	case c.TurnAngle < 0 || c.TurnAngle > fullCircle:
		return fmt.Errorf("%w: turn angle %d", ErrInvalidConfig, c.TurnAngle)
	case c.MaxHop < 0:
		return fmt.Errorf("%w: max hop %d < 0", ErrInvalidConfig, c.MaxHop)
	case c.BonusRadius < 1:
		return fmt.Errorf("%w: bonus radius %d < 1", ErrInvalidConfig, c.BonusRadius)
	case c.MaxBonuses < 0:
		return fmt.Errorf("%w: max bonuses %d < 0", ErrInvalidConfig, c.MaxBonuses)
	case c.SpawnProbability < 0 || c.SpawnProbability > 1:
		return fmt.Errorf("%w: spawn probability %v outside [0, 1]", ErrInvalidConfig, c.SpawnProbability)
	case c.SpawnAttempts < 1:
		return fmt.Errorf("%w: spawn attempts %d < 1", ErrInvalidConfig, c.SpawnAttempts)
	case c.CellSize < 1:
		return fmt.Errorf("%w: cell size %d < 1", ErrInvalidConfig, c.CellSize)
	}
	return nil
}

// newRand returns the random source for a round
func (c Config) newRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
