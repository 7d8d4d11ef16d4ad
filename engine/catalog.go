package engine

import (
	"fmt"
	"math/rand"
)

// Template is a named bonus the field can place
type Template struct {
	Name   string
	Effect Effect
}

// Instantiate returns the effect a player receives when picking this bonus up
func (t Template) Instantiate() Effect {
	// Effects are values, handing out the template's copy is enough.
	return t.Effect
}

// Catalog is the fixed set of bonuses a round draws from
type Catalog struct {
	templates []Template
	byName    map[string]int
}

// NewCatalog builds a catalog; names must be unique and timed effects need a positive lifetime.
func NewCatalog(templates ...Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidEffect)
	}
	c := &Catalog{
		templates: make([]Template, 0, len(templates)),
		byName:    make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		if err := validEffect(t.Effect); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrInvalidEffect, t.Name)
		}
		c.byName[t.Name] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// DefaultCatalog returns the standard good and bad bonuses
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		Template{Name: "speed-increase", Effect: Speed{Delta: 1, Ticks: DefaultEffectTicks}},
		Template{Name: "speed-decrease", Effect: Speed{Delta: -1, Ticks: DefaultEffectTicks}},
		Template{Name: "size-increase", Effect: Size{Delta: 10, Ticks: DefaultEffectTicks}},
		Template{Name: "size-decrease", Effect: Size{Delta: -3, Ticks: DefaultEffectTicks}},
		Template{Name: "gap", Effect: Gap{Hop: 5, Ticks: DefaultGapEffectTicks}},
		Template{Name: "wall-through", Effect: WallThrough{Ticks: DefaultEffectTicks}},
		Template{Name: "inverse-steer", Effect: InverseSteer{Ticks: DefaultEffectTicks}},
		Template{Name: "erase-all", Effect: EraseAll{}},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Random picks a template uniformly
func (c *Catalog) Random(rng *rand.Rand) Template {
	return c.templates[rng.Intn(len(c.templates))]
}

// Lookup finds a template by name
func (c *Catalog) Lookup(name string) (Template, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Len returns the number of templates
func (c *Catalog) Len() int {
	return len(c.templates)
}
