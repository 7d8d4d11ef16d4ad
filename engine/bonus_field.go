package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

// Bonus is a pickup placed on the field
type Bonus struct {
	ID     uuid.UUID
	Shape  Circle
	Name   string
	Effect Effect

	seq uint64 // placement order
}

// BonusField holds the bonuses currently placed in a round.
// It is not safe for concurrent use; a round is driven by one goroutine.
type BonusField struct {
	catalog  *Catalog
	rng      *rand.Rand
	radius   int
	attempts int

	bonuses map[uuid.UUID]*Bonus
	grid    *spatialGrid
	nextSeq uint64
}

// NewBonusField creates an empty field drawing from catalog (DefaultCatalog when nil).
// Bonus size, spawn attempts, cell size and seed come from cfg.
func NewBonusField(catalog *Catalog, cfg Config) *BonusField {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	attempts := cfg.SpawnAttempts
	if attempts < 1 {
		attempts = DefaultSpawnAttempts
	}
	radius := cfg.BonusRadius
	if radius < 1 {
		radius = DefaultBonusRadius
	}
	return &BonusField{
		catalog:  catalog,
		rng:      cfg.newRand(),
		radius:   radius,
		attempts: attempts,
		bonuses:  make(map[uuid.UUID]*Bonus),
		grid:     newSpatialGrid(cfg.CellSize),
	}
}

// Catalog returns the catalog bonuses are drawn from
func (f *BonusField) Catalog() *Catalog {
	return f.catalog
}

// Place puts a bonus built from t at center, bypassing the random draw.
// A template with an invalid effect yields ErrInvalidEffect and places nothing.
func (f *BonusField) Place(center Vector, t Template) (Bonus, error) {
	if err := validEffect(t.Effect); err != nil {
		return Bonus{}, fmt.Errorf("placing %q: %w", t.Name, err)
	}
	b := &Bonus{
		ID:     uuid.New(),
		Shape:  NewCircle(center, f.radius),
		Name:   t.Name,
		Effect: t.Instantiate(),
		seq:    f.nextSeq,
	}
	f.nextSeq++
	f.bonuses[b.ID] = b
	f.grid.insert(b.ID, b.Shape)
	return *b, nil
}

// TrySpawn places a random bonus with the given probability when fewer than
// maxConcurrent are on the field. Positions are sampled uniformly inside the
// arena until one overlaps neither a placed bonus nor fails free; after the
// field's attempt budget the spawn is skipped for this tick. A nil free accepts
// every position. Returns nil when nothing was placed.
func (f *BonusField) TrySpawn(arena Arena, maxConcurrent int, probability float64, free func(Circle) bool) *Bonus {
	if len(f.bonuses) >= maxConcurrent || !arena.valid() {
		return nil
	}
	if f.rng.Float64() >= probability {
		return nil
	}

	for i := 0; i < f.attempts; i++ {
		center := Vec(
			arena.Min.X+1+f.rng.Intn(arena.Width()-1),
			arena.Min.Y+1+f.rng.Intn(arena.Height()-1),
		)
		shape := NewCircle(center, f.radius)
		if f.Intersects(shape) {
			continue
		}
		if free != nil && !free(shape) {
			continue
		}
		b, err := f.Place(center, f.catalog.Random(f.rng))
		if err != nil {
			return nil
		}
		return &b
	}
	return nil
}

// QueryAndRemove returns every bonus intersecting shape, in placement order,
// and removes them from the field. A bonus is handed out by exactly one call.
func (f *BonusField) QueryAndRemove(shape Circle) []Bonus {
	ids := f.grid.intersecting(shape)
	if len(ids) == 0 {
		return nil
	}

	hits := make([]Bonus, 0, len(ids))
	for _, id := range ids {
		if b, ok := f.bonuses[id]; ok {
			hits = append(hits, *b)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].seq < hits[j].seq
	})

	for _, b := range hits {
		delete(f.bonuses, b.ID)
		f.grid.remove(b.ID, b.Shape)
	}
	return hits
}

// Intersects reports whether shape overlaps any placed bonus
func (f *BonusField) Intersects(shape Circle) bool {
	return len(f.grid.intersecting(shape)) > 0
}

// Len returns the number of placed bonuses
func (f *BonusField) Len() int {
	return len(f.bonuses)
}

// Bonuses returns a snapshot of the placed bonuses in placement order
func (f *BonusField) Bonuses() []Bonus {
	out := make([]Bonus, 0, len(f.bonuses))
	for _, b := range f.bonuses {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].seq < out[j].seq
	})
	return out
}
