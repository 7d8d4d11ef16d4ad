package main

import (
	"github.com/collombj/curvy-snake/engine"
	"github.com/google/uuid"
)

// Protocol uses single-character JSON keys to minimize wire size.
// Spectators only receive; anything they send is ignored.
//
// Message type constants (value of "t" field), Server → Client:
//   "w" = welcome   {"t":"w","r":3,"w":500,"h":500,"p":[players],"s":[[circles]],"b":[bonuses]}
//   "f" = frame     {"t":"f","k":12,"d":[circles],"x":[circles],"b":[bonuses],"z":[deaths]}
//   "e" = round end {"t":"e","r":3,"k":840,"w":"winner id"}
//   "x" = error     {"t":"x","m":"message"}
//
// A circle is a flat [x,y,r] triple. Clients draw "d" before erasing "x".
// PlayerDTO: {"i":"id","n":"name","c":"#color","a":1}
// BonusDTO:  {"i":"id","n":"speed-increase","k":"speed","s":[x,y,r]}
// DeathDTO:  {"i":"id","c":"wall-collision"}

// Message type identifiers
const (
	MsgWelcome  = "w"
	MsgFrame    = "f"
	MsgRoundEnd = "e"
	MsgError    = "x"
)

// CircleDTO is a circle encoded as [x, y, r]
type CircleDTO [3]int

// PlayerDTO describes one roster entry.
// a = alive (0 or 1)
type PlayerDTO struct {
	ID    string `json:"i"`
	Name  string `json:"n"`
	Color string `json:"c"`
	Alive int    `json:"a"`
}

// BonusDTO is a bonus lying on the field
type BonusDTO struct {
	ID    string    `json:"i"`
	Name  string    `json:"n"`
	Kind  string    `json:"k"`
	Shape CircleDTO `json:"s"`
}

// DeathDTO reports a player that died during a frame
type DeathDTO struct {
	ID    string `json:"i"`
	Cause string `json:"c"`
}

// WelcomeMsg is sent when a spectator connects and at every round start.
// It carries the full state so the client can draw from scratch.
// s = trails, in roster order, oldest segment first
type WelcomeMsg struct {
	Type    string        `json:"t"`
	Round   int           `json:"r"`
	Width   int           `json:"w"`
	Height  int           `json:"h"`
	Players []PlayerDTO   `json:"p"`
	Trails  [][]CircleDTO `json:"s"`
	Bonuses []BonusDTO    `json:"b"`
}

// FrameMsg is the per-tick delta.
// {"t":"f","k":12,"d":[[x,y,r]],"x":[[x,y,r]],"b":[bonuses],"z":[deaths]}
type FrameMsg struct {
	Type    string      `json:"t"`
	Tick    int         `json:"k"`
	Draw    []CircleDTO `json:"d"`
	Erase   []CircleDTO `json:"x"`
	Spawned []BonusDTO  `json:"b,omitempty"`
	Deaths  []DeathDTO  `json:"z,omitempty"`
}

// RoundEndMsg closes a round. w is omitted when nobody survived.
type RoundEndMsg struct {
	Type   string `json:"t"`
	Round  int    `json:"r"`
	Ticks  int    `json:"k"`
	Winner string `json:"w,omitempty"`
}

// ErrorMsg is sent right before the server drops a connection
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

func newCircleDTO(c engine.Circle) CircleDTO {
	return CircleDTO{c.Center.X, c.Center.Y, c.Radius}
}

func newCircleDTOs(cs []engine.Circle) []CircleDTO {
	out := make([]CircleDTO, len(cs))
	for i, c := range cs {
		out[i] = newCircleDTO(c)
	}
	return out
}

func newBonusDTO(b engine.Bonus) BonusDTO {
	return BonusDTO{
		ID:    b.ID.String(),
		Name:  b.Name,
		Kind:  b.Effect.Kind().String(),
		Shape: newCircleDTO(b.Shape),
	}
}

// newFrameMsg converts a round frame to its wire form
func newFrameMsg(f engine.Frame) FrameMsg {
	msg := FrameMsg{
		Type:  MsgFrame,
		Tick:  f.Tick,
		Draw:  newCircleDTOs(f.Draw),
		Erase: newCircleDTOs(f.Erase),
	}
	for _, b := range f.Spawned {
		msg.Spawned = append(msg.Spawned, newBonusDTO(b))
	}
	for _, d := range f.Deaths {
		msg.Deaths = append(msg.Deaths, DeathDTO{ID: d.Player.String(), Cause: string(d.Cause)})
	}
	return msg
}

// newWelcomeMsg snapshots the whole round
func newWelcomeMsg(number int, r *engine.Round, colors map[uuid.UUID]string) WelcomeMsg {
	arena := r.Arena()
	players := r.Players()
	msg := WelcomeMsg{
		Type:    MsgWelcome,
		Round:   number,
		Width:   arena.Width(),
		Height:  arena.Height(),
		Players: make([]PlayerDTO, 0, len(players)),
		Trails:  make([][]CircleDTO, 0, len(players)),
		Bonuses: []BonusDTO{},
	}
	for _, p := range players {
		alive := 0
		if p.Alive() {
			alive = 1
		}
		msg.Players = append(msg.Players, PlayerDTO{
			ID:    p.ID.String(),
			Name:  p.Name,
			Color: colors[p.ID],
			Alive: alive,
		})
		msg.Trails = append(msg.Trails, newCircleDTOs(p.Trail().Segments()))
	}
	if f := r.Field(); f != nil {
		for _, b := range f.Bonuses() {
			msg.Bonuses = append(msg.Bonuses, newBonusDTO(b))
		}
	}
	return msg
}

// newRoundEndMsg reports the outcome of a finished round
func newRoundEndMsg(number int, r *engine.Round) RoundEndMsg {
	msg := RoundEndMsg{Type: MsgRoundEnd, Round: number, Ticks: r.Tick()}
	if w, ok := r.Winner(); ok {
		msg.Winner = w.ID.String()
	}
	return msg
}
