package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/collombj/curvy-snake/engine"
	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

const (
	snapshotBackground = "#1e1e1e"
	snapshotWall       = "#dddddd"
	snapshotBonus      = "#ffffff"
)

// renderSnapshot draws the arena, the bonuses left on the field and every trail
func renderSnapshot(r *engine.Round, colors map[uuid.UUID]string, scale int) *gg.Context {
	if scale < 1 {
		scale = 1
	}
	arena := r.Arena()
	s := float64(scale)
	dc := gg.NewContext(arena.Width()*scale, arena.Height()*scale)

	dc.SetHexColor(snapshotBackground)
	dc.Clear()

	dc.SetHexColor(snapshotWall)
	dc.SetLineWidth(2)
	dc.DrawRectangle(0, 0, float64(arena.Width())*s, float64(arena.Height())*s)
	dc.Stroke()

	at := func(c engine.Circle) (float64, float64, float64) {
		return float64(c.Center.X-arena.Min.X) * s, float64(c.Center.Y-arena.Min.Y) * s, float64(c.Radius) * s
	}

	if f := r.Field(); f != nil {
		dc.SetHexColor(snapshotBonus)
		for _, b := range f.Bonuses() {
			x, y, rad := at(b.Shape)
			dc.DrawCircle(x, y, rad)
			dc.Stroke()
		}
	}

	for _, p := range r.Players() {
		color, ok := colors[p.ID]
		if !ok {
			color = snapshotWall
		}
		dc.SetHexColor(color)
		for _, seg := range p.Trail().Segments() {
			x, y, rad := at(seg)
			dc.DrawCircle(x, y, rad)
			dc.Fill()
		}
	}
	return dc
}

// saveSnapshot writes the PNG of a finished round into dir and returns its path
func saveSnapshot(dir string, number int, r *engine.Round, colors map[uuid.UUID]string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("round-%04d.png", number))
	if err := renderSnapshot(r, colors, SnapshotScale).SavePNG(path); err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}
	return path, nil
}
