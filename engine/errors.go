package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Engine errors.
var (
	ErrCollision             = errors.New("collision")
	ErrBonusFieldUnavailable = errors.New("bonus field is not configured")
	ErrInvalidEffect         = errors.New("invalid bonus effect")
	ErrPlayerDead            = errors.New("player is dead")
	ErrNoRound               = errors.New("player is not attached to a round")
	ErrOutOfArena            = errors.New("position is outside the arena")
	ErrInvalidHeading        = errors.New("heading must be within [-360, 360]")
	ErrInvalidConfig         = errors.New("invalid round configuration")
)

// DeathCause tells what a head ran into.
type DeathCause string

const (
	// CauseWall is a head leaving the arena without wall-through
	CauseWall DeathCause = "wall-collision"
	// CauseSelf is a head hitting an older segment of its own trail
	CauseSelf DeathCause = "self-collision"
	// CauseOther is a head hitting another player's trail
	CauseOther DeathCause = "snake-collision"
)

// CollisionError is returned when an advance would put the head on a wall or a trail.
// It is terminal for the player that caused it.
type CollisionError struct {
	Cause  DeathCause
	At     Circle    // rejected head
	Player uuid.UUID // owner of the rejected head, zero when the trail is not attached
	Other  uuid.UUID // owner of the trail that was hit, only set for CauseOther
}

func (e *CollisionError) Error() string {
	if e.Cause == CauseOther && e.Other != uuid.Nil {
		return fmt.Sprintf("%s at %s with %s", e.Cause, e.At, e.Other)
	}
	return fmt.Sprintf("%s at %s", e.Cause, e.At)
}

// Is makes errors.Is(err, ErrCollision) hold for every CollisionError.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}
