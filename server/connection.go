package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn manages a single WebSocket spectator session
type Conn struct {
	ID     string
	ws     *websocket.Conn
	mu     sync.Mutex // protects ws writes and closed
	closed bool

	// welcomed is only touched by the game loop goroutine
	welcomed bool
}

// NewConn creates a new connection wrapper
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it to the WebSocket
func (c *Conn) Send(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.SendRaw(data)
}

// SendRaw writes an already encoded message
func (c *Conn) SendRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ReadLoop drains the connection until the client goes away. Spectators have
// nothing to say, but reading is what surfaces close frames and dead peers.
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("%s[ERROR]%s ws read error for %s: %v", LogErrorColor, LogColorReset, c.ID, err)
			}
			return
		}
	}
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// Broadcast encodes msg once and sends it to every connection that already
// got its welcome.
func (m *ConnManager) Broadcast(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("%s[ERROR]%s encoding broadcast: %v", LogErrorColor, LogColorReset, err)
		return
	}
	for _, c := range m.Snapshot() {
		if !c.welcomed {
			continue
		}
		if err := c.SendRaw(data); err != nil {
			log.Printf("%s[ERROR]%s send error to %s: %v", LogErrorColor, LogColorReset, c.ID, err)
		}
	}
}
