package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func newIPRateLimiter(ctx context.Context, cooldown time.Duration) *ipRateLimiter {
	rl := &ipRateLimiter{times: make(map[string]time.Time), cooldown: cooldown, now: time.Now}
	// Cleanup stale entries every 60s
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.prune()
			}
		}
	}()
	return rl
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if last, ok := rl.times[ip]; ok && now.Sub(last) < rl.cooldown {
		return false
	}
	rl.times[ip] = now
	return true
}

func (rl *ipRateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only, any origin may watch
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Enable per-message deflate compression (RFC 7692)
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// spectateHandler upgrades spectators and registers them; the game loop sends
// them a welcome on its next tick.
func spectateHandler(conns *ConnManager, limiter *ipRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract client IP (handle X-Forwarded-For for reverse proxies)
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("%s[ERROR]%s ws upgrade error: %v", LogErrorColor, LogColorReset, err)
			return
		}

		// Check limits after upgrade so client can receive error messages
		if conns.Count() >= MaxSpectators {
			sendErrorAndClose(ws, "Server full. Please try again later.")
			return
		}
		if !limiter.allow(ip) {
			sendErrorAndClose(ws, "Too many connections. Please wait a few seconds.")
			return
		}

		ws.EnableWriteCompression(true)

		conn := NewConn(ws)
		conns.Add(conn)
		log.Printf("%s[INFO]%s spectator connected: %s", LogInfoColor, LogColorReset, conn.ID)

		// Blocking read loop, runs until client disconnects
		conn.ReadLoop(func(c *Conn) {
			conns.Remove(c.ID)
			log.Printf("%s[INFO]%s spectator disconnected: %s", LogInfoColor, LogColorReset, c.ID)
		})
	}
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("%s[FATAL]%s invalid configuration: %v", LogErrorColor, LogColorReset, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns := NewConnManager()
	loop := NewGameLoop(cfg, conns)
	limiter := newIPRateLimiter(ctx, IPCooldownSec*time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, spectateHandler(conns, limiter))
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, c := range conns.Snapshot() {
			c.Close()
		}
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Start game loop in background
	go loop.Run(ctx)

	log.Printf("%s[INFO]%s server listening on %s (arena %dx%d, %d players)", LogInfoColor, LogColorReset,
		cfg.ListenAddr, cfg.Round.Arena.Width(), cfg.Round.Arena.Height(), cfg.PlayerCount)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%s[FATAL]%s server error: %v", LogErrorColor, LogColorReset, err)
	}
}
