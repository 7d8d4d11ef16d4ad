package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietRound returns a seeded round that never spawns bonuses on its own
func quietRound(t *testing.T, width, height int) *Round {
	t.Helper()
	cfg := testConfig()
	cfg.Arena = NewArena(width, height)
	cfg.SpawnProbability = 0
	r, err := NewRound(cfg)
	require.NoError(t, err)
	return r
}

func centers(cs []Circle) []Vector {
	out := make([]Vector, len(cs))
	for i, c := range cs {
		out[i] = c.Center
	}
	return out
}

func TestPlayerTickSpeed(t *testing.T) {
	t.Run("one segment per unit of speed", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, err := r.AddPlayer("a", Vec(50, 250), 0)
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Equal(t, []Vector{Vec(54, 250), Vec(58, 250), Vec(62, 250)}, centers(res.Added))
		assert.Len(t, res.Removed, 1)
	})

	t.Run("speed effects add sub-steps", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Speed{Delta: 1, Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Len(t, res.Added, 4)
		assert.Len(t, res.Removed, 2)
	})

	t.Run("speed is floored at one", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Speed{Delta: -10, Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Len(t, res.Added, 1)
	})
}

func TestPlayerTickEffects(t *testing.T) {
	t.Run("gap only hops on the first sub-step", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Gap{Hop: 5, Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Equal(t, []Vector{Vec(74, 250), Vec(78, 250), Vec(82, 250)}, centers(res.Added))
	})

	t.Run("hop is capped", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Gap{Hop: 500, Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Equal(t, Vec(50+4*(DefaultMaxHop+1), 250), res.Added[0].Center)
	})

	t.Run("size changes the radius of new segments", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Size{Delta: -30, Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		for _, c := range res.Added {
			assert.Equal(t, 1, c.Radius)
		}
	})

	t.Run("inverse steer swaps left and right", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		plain, _ := r.AddPlayer("plain", Vec(50, 100), 0)
		inverted, _ := r.AddPlayer("inverted", Vec(50, 400), 0)
		_, err := inverted.Apply(InverseSteer{Ticks: 10})
		require.NoError(t, err)

		_, err = plain.Tick(TurnLeft)
		require.NoError(t, err)
		_, err = inverted.Tick(TurnLeft)
		require.NoError(t, err)

		assert.Equal(t, 15, plain.Heading())
		assert.Equal(t, 345, inverted.Heading())
	})

	t.Run("wall-through wraps the player", func(t *testing.T) {
		r := quietRound(t, 100, 100)
		p, _ := r.AddPlayer("a", Vec(94, 50), 0)
		_, err := p.Apply(WallThrough{Ticks: 10})
		require.NoError(t, err)

		res, err := p.Tick(TurnNone)
		require.NoError(t, err)
		assert.Equal(t, []Vector{Vec(98, 50), Vec(1, 50), Vec(5, 50)}, centers(res.Added))
		assert.True(t, p.Alive())
	})

	t.Run("effects age and expire", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Speed{Delta: 1, Ticks: 2})
		require.NoError(t, err)
		_, err = p.Apply(WallThrough{Ticks: 1})
		require.NoError(t, err)

		p.DecrementEffects()
		require.Len(t, p.Effects(), 1)
		assert.Equal(t, Speed{Delta: 1, Ticks: 1}, p.Effects()[0])

		p.DecrementEffects()
		assert.Empty(t, p.Effects())
	})

	t.Run("invalid effects are rejected", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Speed{Delta: 1})
		assert.ErrorIs(t, err, ErrInvalidEffect)
		_, err = p.Apply(nil)
		assert.ErrorIs(t, err, ErrInvalidEffect)
		assert.Empty(t, p.Effects())
	})
}

func TestPlayerPickup(t *testing.T) {
	r := quietRound(t, 500, 500)
	p, _ := r.AddPlayer("a", Vec(50, 250), 0)
	speedUp, _ := r.Field().Catalog().Lookup("speed-increase")
	bonus, err := r.Field().Place(Vec(66, 250), speedUp)
	require.NoError(t, err)

	res, err := p.Tick(TurnNone)
	require.NoError(t, err)
	assert.Contains(t, res.Removed, bonus.Shape)
	assert.Equal(t, 0, r.Field().Len())
	require.Len(t, p.Effects(), 1)
	assert.Equal(t, KindSpeed, p.Effects()[0].Kind())

	// the picked speed applies from the next tick on
	assert.Len(t, res.Added, 3)
	res, err = p.Tick(TurnNone)
	require.NoError(t, err)
	assert.Len(t, res.Added, 4)
}

func TestPlayerDeath(t *testing.T) {
	r := quietRound(t, 500, 500)
	p, _ := r.AddPlayer("a", Vec(490, 250), 0)

	res, err := p.Tick(TurnNone)
	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, CauseWall, ce.Cause)
	assert.Equal(t, p.ID, ce.Player)
	assert.False(t, p.Alive())
	assert.Equal(t, []Vector{Vec(494, 250), Vec(498, 250)}, centers(res.Added))
	assert.Equal(t, Vec(498, 250), p.Head().Center)

	_, err = p.Tick(TurnNone)
	assert.ErrorIs(t, err, ErrPlayerDead)
}

func TestPlayerErrors(t *testing.T) {
	t.Run("detached player", func(t *testing.T) {
		_, err := (&Player{}).Tick(TurnNone)
		assert.ErrorIs(t, err, ErrNoRound)
	})

	t.Run("round without bonus field", func(t *testing.T) {
		r, err := NewRound(testConfig(), WithField(nil))
		require.NoError(t, err)
		p, err := r.AddPlayer("a", Vec(50, 50), 0)
		require.NoError(t, err)

		_, err = p.Tick(TurnNone)
		assert.ErrorIs(t, err, ErrBonusFieldUnavailable)
		assert.True(t, p.Alive())
		assert.Equal(t, 1, p.Trail().Len())
	})
}

func TestHeadingVector(t *testing.T) {
	assert.Equal(t, Vec(4, 0), HeadingVector(0, 4))
	assert.Equal(t, Vec(0, 4), HeadingVector(90, 4))
	assert.Equal(t, Vec(-4, 0), HeadingVector(180, 4))
	assert.Equal(t, Vec(0, -4), HeadingVector(270, 4))
	assert.Equal(t, Vec(3, 3), HeadingVector(45, 4))
	assert.Equal(t, 270, normalizeHeading(-90))
	assert.Equal(t, 0, normalizeHeading(360))
}
