package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/collombj/curvy-snake/engine"
	"github.com/google/uuid"
)

// GameLoop drives rounds at a fixed tick rate and feeds the spectators.
// The current round is only touched from the goroutine running the loop.
type GameLoop struct {
	cfg    Config
	conns  *ConnManager
	bots   *BotManager
	logger *log.Logger
	rng    *rand.Rand

	round  *engine.Round
	number int                  // rounds started so far
	colors map[uuid.UUID]string // player id -> display colour
	idle   int                  // ticks since the current round ended

	snapshots sync.WaitGroup // in-flight PNG writes of finished rounds
}

// NewGameLoop creates a game loop bound to the connection manager.
// The first round starts on the first tick.
func NewGameLoop(cfg Config, conns *ConnManager) *GameLoop {
	seed := cfg.Round.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &GameLoop{
		cfg:    cfg,
		conns:  conns,
		bots:   NewBotManager(rng),
		logger: log.Default(),
		rng:    rng,
	}
}

// Run starts the fixed-timestep loop. Blocks until ctx is done.
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(gl.cfg.TickRate))
	defer ticker.Stop()
	gl.logger.Printf("%s[INFO]%s game loop started at %d ticks/sec", LogInfoColor, LogColorReset, gl.cfg.TickRate)

	for {
		select {
		case <-ctx.Done():
			gl.snapshots.Wait()
			gl.logger.Printf("%s[INFO]%s game loop stopped", LogInfoColor, LogColorReset)
			return
		case <-ticker.C:
			if err := gl.tick(); err != nil {
				gl.logger.Printf("%s[ERROR]%s %v", LogErrorColor, LogColorReset, err)
			}
		}
	}
}

// tick executes a single game update
func (gl *GameLoop) tick() error {
	// 1. First tick, or a failed restart
	if gl.round == nil {
		if err := gl.startRound(); err != nil {
			return err
		}
	}

	// 2. Bring new spectators up to date
	gl.welcomeNewcomers()

	// 3. Between rounds: announce the end once, then wait for the delay
	if gl.round.Over() {
		gl.idle++
		if gl.idle == 1 {
			gl.endRound()
		}
		if gl.idle > gl.cfg.RoundDelayTicks {
			return gl.startRound()
		}
		return nil
	}

	// 4. Step the round with the bots' commands and broadcast the delta
	frame, err := gl.round.Step(gl.bots.Turns(gl.round))
	if err != nil {
		return fmt.Errorf("round %d tick %d: %w", gl.number, frame.Tick, err)
	}
	gl.conns.Broadcast(newFrameMsg(frame))
	return nil
}

// startRound replaces the current round with a fresh one and places the AI players
func (gl *GameLoop) startRound() error {
	rc := gl.cfg.Round
	if rc.Seed != 0 {
		rc.Seed += int64(gl.number)
	}
	r, err := engine.NewRound(rc, engine.WithLogger(gl.logger), engine.WithRand(rand.New(rand.NewSource(gl.rng.Int63()))))
	if err != nil {
		gl.round = nil
		return fmt.Errorf("starting round: %w", err)
	}

	gl.bots.Reset()
	colors := make(map[uuid.UUID]string, gl.cfg.PlayerCount)
	for i := 0; i < gl.cfg.PlayerCount; i++ {
		start, heading, ok := r.RandomStart(SpawnMargin)
		if !ok {
			gl.logger.Printf("%s[ERROR]%s no room for player %d of %d", LogErrorColor, LogColorReset, i+1, gl.cfg.PlayerCount)
			break
		}
		p, err := r.AddPlayer(botNames[i%len(botNames)], start, heading)
		if err != nil {
			gl.round = nil
			return fmt.Errorf("adding player: %w", err)
		}
		colors[p.ID] = PlayerColors[i%len(PlayerColors)]
		gl.bots.Add(p.ID)
	}

	gl.round = r
	gl.colors = colors
	gl.number++
	gl.idle = 0
	for _, c := range gl.conns.Snapshot() {
		c.welcomed = false
	}
	gl.logger.Printf("%s[INFO]%s round %d started with %d players", LogInfoColor, LogColorReset, gl.number, len(r.Players()))
	return nil
}

// endRound announces the result and saves the snapshot in the background.
// A finished round is never stepped again, so the writer can read it freely.
func (gl *GameLoop) endRound() {
	msg := newRoundEndMsg(gl.number, gl.round)
	gl.conns.Broadcast(msg)

	winner := "nobody"
	if w, ok := gl.round.Winner(); ok {
		winner = w.Name
	}
	gl.logger.Printf("%s[INFO]%s round %d over after %d ticks, winner: %s", LogInfoColor, LogColorReset, gl.number, msg.Ticks, winner)

	if gl.cfg.SnapshotDir == "" {
		return
	}
	dir, number, round, colors := gl.cfg.SnapshotDir, gl.number, gl.round, gl.colors
	gl.snapshots.Add(1)
	go func() {
		defer gl.snapshots.Done()
		path, err := saveSnapshot(dir, number, round, colors)
		if err != nil {
			gl.logger.Printf("%s[ERROR]%s round %d: %v", LogErrorColor, LogColorReset, number, err)
			return
		}
		gl.logger.Printf("%s[INFO]%s round %d snapshot saved to %s", LogInfoColor, LogColorReset, number, path)
	}()
}

// welcomeNewcomers sends the full round state to connections that have not seen it
func (gl *GameLoop) welcomeNewcomers() {
	var msg *WelcomeMsg
	for _, c := range gl.conns.Snapshot() {
		if c.welcomed {
			continue
		}
		if msg == nil {
			m := newWelcomeMsg(gl.number, gl.round, gl.colors)
			msg = &m
		}
		if err := c.Send(msg); err != nil {
			gl.logger.Printf("%s[ERROR]%s welcome to %s: %v", LogErrorColor, LogColorReset, c.ID, err)
			continue
		}
		c.welcomed = true
	}
}
