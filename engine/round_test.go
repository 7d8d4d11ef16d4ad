package engine

import (
	"bytes"
	"log"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRound(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.BaseSpeed = 0
		_, err := NewRound(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		cfg = testConfig()
		cfg.Arena = NewArena(1, 1)
		_, err = NewRound(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("default field", func(t *testing.T) {
		r, err := NewRound(testConfig())
		require.NoError(t, err)
		require.NotNil(t, r.Field())
		assert.Equal(t, 8, r.Field().Catalog().Len())
		assert.Equal(t, 0, r.Tick())
	})

	t.Run("custom field", func(t *testing.T) {
		c, err := NewCatalog(Template{Name: "fast", Effect: Speed{Delta: 1, Ticks: 5}})
		require.NoError(t, err)
		f := NewBonusField(c, testConfig())
		r, err := NewRound(testConfig(), WithField(f), WithRand(rand.New(rand.NewSource(1))))
		require.NoError(t, err)
		assert.Same(t, f, r.Field())
	})
}

func TestRoundAddPlayer(t *testing.T) {
	r := quietRound(t, 100, 100)

	_, err := r.AddPlayer("out", Vec(100, 50), 0)
	assert.ErrorIs(t, err, ErrOutOfArena)

	_, err = r.AddPlayer("spin", Vec(50, 50), 400)
	assert.ErrorIs(t, err, ErrInvalidHeading)

	p, err := r.AddPlayer("a", Vec(50, 50), -90)
	require.NoError(t, err)
	assert.Equal(t, 270, p.Heading())
	assert.Equal(t, p.ID, p.Trail().Owner())
	assert.True(t, p.Alive())

	found, ok := r.Player(p.ID)
	require.True(t, ok)
	assert.Same(t, p, found)
	_, ok = r.Player(uuid.New())
	assert.False(t, ok)
	assert.Len(t, r.Players(), 1)
}

func TestRoundStep(t *testing.T) {
	t.Run("three ticks at speed three", func(t *testing.T) {
		r := quietRound(t, 100, 100)
		p, err := r.AddPlayer("a", Vec(50, 50), 0)
		require.NoError(t, err)

		var added, removed int
		for i := 0; i < 3; i++ {
			f, err := r.Step(nil)
			require.NoError(t, err)
			assert.Equal(t, i+1, f.Tick)
			assert.Empty(t, f.Deaths)
			added += len(f.Draw)
			removed += len(f.Erase)
		}
		assert.Equal(t, 9, added)
		assert.Equal(t, 4, removed)
		assert.Equal(t, 6, p.Trail().Len())
		assert.Equal(t, Vec(86, 50), p.Head().Center)
		assert.Equal(t, 3, r.Tick())
	})

	t.Run("turns are applied per player", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		a, _ := r.AddPlayer("a", Vec(100, 100), 0)
		b, _ := r.AddPlayer("b", Vec(100, 400), 0)

		_, err := r.Step(map[uuid.UUID]Turn{a.ID: TurnRight})
		require.NoError(t, err)
		assert.Equal(t, 345, a.Heading())
		assert.Equal(t, 0, b.Heading())
	})

	t.Run("a bonus is picked up by one player only", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		a, _ := r.AddPlayer("a", Vec(50, 94), 0)
		b, _ := r.AddPlayer("b", Vec(70, 106), 180)
		speedUp, _ := r.Field().Catalog().Lookup("speed-increase")
		bonus, err := r.Field().Place(Vec(60, 100), speedUp)
		require.NoError(t, err)

		f, err := r.Step(nil)
		require.NoError(t, err)
		assert.Empty(t, f.Deaths)
		assert.Len(t, a.Effects(), 1)
		assert.Empty(t, b.Effects())

		erased := 0
		for _, c := range f.Erase {
			if c == bonus.Shape {
				erased++
			}
		}
		assert.Equal(t, 1, erased)
		assert.Equal(t, 0, r.Field().Len())
	})

	t.Run("effects age once per step", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		p, _ := r.AddPlayer("a", Vec(50, 250), 0)
		_, err := p.Apply(Speed{Delta: 1, Ticks: 2})
		require.NoError(t, err)

		f, err := r.Step(nil)
		require.NoError(t, err)
		assert.Len(t, f.Draw, 4)
		f, err = r.Step(nil)
		require.NoError(t, err)
		assert.Len(t, f.Draw, 4)
		f, err = r.Step(nil)
		require.NoError(t, err)
		assert.Len(t, f.Draw, 3)
		assert.Empty(t, p.Effects())
	})

	t.Run("spawns are drawn", func(t *testing.T) {
		cfg := testConfig()
		cfg.SpawnProbability = 1
		cfg.MaxBonuses = 2
		r, err := NewRound(cfg)
		require.NoError(t, err)

		f, err := r.Step(nil)
		require.NoError(t, err)
		require.Len(t, f.Spawned, 1)
		assert.Contains(t, f.Draw, f.Spawned[0].Shape)

		for i := 0; i < 3; i++ {
			_, err = r.Step(nil)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, r.Field().Len())
	})

	t.Run("round without field", func(t *testing.T) {
		r, err := NewRound(testConfig(), WithField(nil))
		require.NoError(t, err)
		_, err = r.AddPlayer("a", Vec(50, 50), 0)
		require.NoError(t, err)
		_, err = r.Step(nil)
		assert.ErrorIs(t, err, ErrBonusFieldUnavailable)
	})
}

func TestRoundDeaths(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.SpawnProbability = 0
	r, err := NewRound(cfg, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)

	a, _ := r.AddPlayer("a", Vec(490, 250), 0)
	b, _ := r.AddPlayer("b", Vec(496, 200), 90)
	assert.False(t, r.Over())

	f, err := r.Step(nil)
	require.NoError(t, err)
	require.Len(t, f.Deaths, 1)
	assert.Equal(t, Death{Player: a.ID, Name: "a", Cause: CauseWall, At: NewCircle(Vec(502, 250), 5)}, f.Deaths[0])
	assert.Contains(t, buf.String(), "player a died")

	assert.True(t, r.Over())
	winner, ok := r.Winner()
	require.True(t, ok)
	assert.Same(t, b, winner)
	assert.Equal(t, []*Player{b}, r.Alive())

	// the dead trail no longer collides
	assert.True(t, r.IsFree(a.Head()))
	for i := 0; i < 5; i++ {
		f, err = r.Step(nil)
		require.NoError(t, err)
		assert.Empty(t, f.Deaths)
	}
	assert.True(t, b.Alive())
	assert.Greater(t, b.Head().Center.Y, 250)

	// erase-all also clears the trail left by a dead player
	require.Equal(t, 2, a.Trail().Len())
	removed, err := b.Apply(EraseAll{})
	require.NoError(t, err)
	assert.Contains(t, removed, NewCircle(Vec(494, 250), 5))
	assert.Equal(t, 1, a.Trail().Len())
	assert.Equal(t, 1, b.Trail().Len())
}

func TestRoundOver(t *testing.T) {
	t.Run("solo round ends when the player dies", func(t *testing.T) {
		r := quietRound(t, 500, 500)
		_, _ = r.AddPlayer("a", Vec(490, 250), 0)
		assert.False(t, r.Over())
		_, err := r.Step(nil)
		require.NoError(t, err)
		assert.True(t, r.Over())
		_, ok := r.Winner()
		assert.False(t, ok)
	})
}

func TestRoundEraseAll(t *testing.T) {
	setup := func(t *testing.T) (*Round, *Player, *Player) {
		r := quietRound(t, 500, 500)
		a, _ := r.AddPlayer("a", Vec(50, 100), 0)
		b, _ := r.AddPlayer("b", Vec(50, 400), 0)
		for i := 0; i < 4; i++ {
			_, err := r.Step(nil)
			require.NoError(t, err)
		}
		return r, a, b
	}

	t.Run("applied directly", func(t *testing.T) {
		_, a, b := setup(t)
		want := a.Trail().Len() - 1 + b.Trail().Len() - 1
		heads := []Circle{a.Head(), b.Head()}

		removed, err := a.Apply(EraseAll{})
		require.NoError(t, err)
		assert.Len(t, removed, want)
		assert.Equal(t, 1, a.Trail().Len())
		assert.Equal(t, 1, b.Trail().Len())
		assert.Equal(t, heads, []Circle{a.Head(), b.Head()})
		assert.Empty(t, a.Effects())
	})

	t.Run("picked up during a tick", func(t *testing.T) {
		r, a, b := setup(t)
		before := a.Trail().Segments()
		others := b.Trail().Segments()
		others = others[:len(others)-1]

		erase, _ := r.Field().Catalog().Lookup("erase-all")
		_, err := r.Field().Place(a.Head().Center.Add(Vec(8, 0)), erase)
		require.NoError(t, err)

		f, err := r.Step(nil)
		require.NoError(t, err)
		assert.Empty(t, f.Deaths)
		for _, c := range append(before, others...) {
			assert.Contains(t, f.Erase, c)
		}
		assert.Empty(t, a.Effects(), "erase-all is never stored")
		assert.LessOrEqual(t, a.Trail().Len(), 3)
	})
}

func TestRoundRandomStart(t *testing.T) {
	r := quietRound(t, 500, 500)
	for i := 0; i < 10; i++ {
		start, heading, ok := r.RandomStart(50)
		require.True(t, ok)
		assert.True(t, start.X > 50 && start.X < 450)
		assert.True(t, start.Y > 50 && start.Y < 450)
		assert.Zero(t, heading%DefaultTurnAngle)
		_, err := r.AddPlayer("p", start, heading)
		require.NoError(t, err)
	}

	_, _, ok := r.RandomStart(250)
	assert.False(t, ok)
}
