// Package net owns the websocket surface: player slots, intent ingestion,
// and the periodic full-state snapshot broadcast. Guests never mutate the
// simulation; their intents flow through the hub into the host's command
// queue and come back as snapshots.
package net

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"holdfast/server/internal/game"
	"holdfast/server/internal/sim"
	"holdfast/server/logging"
	lifecyclelog "holdfast/server/logging/lifecycle"
)

const writeWait = 10 * time.Second

// Per-connection intent budget.
const (
	intentsPerSecond = 10
	intentBurst      = 20
)

// SnapshotSink receives serialized full-state snapshots. The hub only
// talks to subscribers through this interface so wholesale replacement
// could later be swapped for delta sync without touching the simulation.
type SnapshotSink interface {
	PushState(data []byte) error
}

type subscriber struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	limiter *rate.Limiter
}

func (s *subscriber) PushState(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// HubConfig tunes the hub.
type HubConfig struct {
	SnapshotInterval time.Duration
	Logger           *log.Logger
	Publisher        logging.Publisher
	// OnBroadcast observes each snapshot broadcast for metrics.
	OnBroadcast func(bytes, subscribers int)
}

// Hub assigns player slots to connections and fans snapshots out to them.
type Hub struct {
	loop      *sim.Loop
	cfg       HubConfig
	logger    *log.Logger
	publisher logging.Publisher
	upgrader  websocket.Upgrader

	mu          sync.Mutex
	latest      game.Snapshot
	claimed     map[string]bool
	subscribers map[string]SnapshotSink
}

// NewHub wires a hub to the loop. The initial snapshot seeds the slot
// table and the first state reads.
func NewHub(loop *sim.Loop, initial game.Snapshot, cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = 100 * time.Millisecond
	}
	claimed := make(map[string]bool, len(initial.Players))
	for _, player := range initial.Players {
		claimed[player.ID] = false
	}
	return &Hub{
		loop:      loop,
		cfg:       cfg,
		logger:    logger,
		publisher: publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		latest:      initial,
		claimed:     claimed,
		subscribers: make(map[string]SnapshotSink),
	}
}

// OnStep is the loop's AfterStep hook; it retains the freshest snapshot
// for broadcast and reads.
func (h *Hub) OnStep(result sim.StepResult) {
	h.mu.Lock()
	h.latest = result.Snapshot
	h.mu.Unlock()
}

// Latest returns the most recent snapshot.
func (h *Hub) Latest() game.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Join claims the first free player slot. It reports false when the
// session is full.
func (h *Hub) Join() (JoinResponse, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, player := range h.latest.Players {
		if h.claimed[player.ID] {
			continue
		}
		h.claimed[player.ID] = true
		host := player.ID == "p1"
		lifecyclelog.PlayerJoined(context.Background(), h.publisher, h.latest.Tick,
			logging.EntityRef{ID: player.ID, Kind: logging.EntityKindPlayer})
		return JoinResponse{Ver: Version, ID: player.ID, Host: host, Snapshot: h.latest}, true
	}
	return JoinResponse{}, false
}

// ServeWS upgrades a connection for a joined player and pumps intents
// until the connection drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("id")
	h.mu.Lock()
	known := false
	if playerID != "" {
		_, known = h.claimed[playerID]
	}
	h.mu.Unlock()
	if !known {
		http.Error(w, "unknown player", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", playerID, err)
		return
	}

	sub := &subscriber{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(intentsPerSecond), intentBurst),
	}
	h.mu.Lock()
	if existing, ok := h.subscribers[playerID]; ok {
		if old, ok := existing.(*subscriber); ok {
			old.conn.Close()
		}
	}
	h.subscribers[playerID] = sub
	initial := h.latest
	h.mu.Unlock()

	if data, err := json.Marshal(StateMessage{
		Ver:        Version,
		Type:       TypeState,
		Snapshot:   initial,
		ServerTime: time.Now().UnixMilli(),
	}); err == nil {
		if err := sub.PushState(data); err != nil {
			h.drop(playerID, "write_failed")
			return
		}
	}

	h.readPump(playerID, sub)
}

func (h *Hub) readPump(playerID string, sub *subscriber) {
	for {
		_, payload, err := sub.conn.ReadMessage()
		if err != nil {
			h.drop(playerID, "read_failed")
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", playerID, err)
			continue
		}
		if !sub.limiter.Allow() {
			continue
		}
		cmdType, ok := commandType(msg.Type)
		if !ok {
			h.logger.Printf("discarding unknown intent %q from %s", msg.Type, playerID)
			continue
		}
		h.loop.Enqueue(sim.Command{
			ActorID: playerID,
			Type:    cmdType,
			X:       msg.X,
			Y:       msg.Y,
		})
	}
}

func commandType(messageType string) (sim.CommandType, bool) {
	switch messageType {
	case TypeSpawnUnit:
		return sim.CommandSpawnUnit, true
	case TypeBuildHouse:
		return sim.CommandBuildHouse, true
	case TypeBuildMine:
		return sim.CommandBuildMine, true
	case TypeBuildWall:
		return sim.CommandBuildWall, true
	case TypeRemoveWall:
		return sim.CommandRemoveWall, true
	}
	return "", false
}

func (h *Hub) drop(playerID, reason string) {
	h.mu.Lock()
	sub, ok := h.subscribers[playerID]
	if ok {
		delete(h.subscribers, playerID)
	}
	tick := h.latest.Tick
	h.mu.Unlock()
	if !ok {
		return
	}
	if ws, ok := sub.(*subscriber); ok {
		ws.conn.Close()
	}
	lifecyclelog.PlayerDisconnected(context.Background(), h.publisher, tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer}, reason)
}

// Run broadcasts the latest snapshot to every subscriber at the fixed
// snapshot cadence until the stop channel closes.
func (h *Hub) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	h.mu.Lock()
	snapshot := h.latest
	sinks := make(map[string]SnapshotSink, len(h.subscribers))
	for id, sink := range h.subscribers {
		sinks[id] = sink
	}
	h.mu.Unlock()
	if len(sinks) == 0 {
		return
	}

	data, err := json.Marshal(StateMessage{
		Ver:        Version,
		Type:       TypeState,
		Snapshot:   snapshot,
		ServerTime: time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Printf("failed to marshal snapshot: %v", err)
		return
	}
	for playerID, sink := range sinks {
		if err := sink.PushState(data); err != nil {
			h.drop(playerID, "write_failed")
		}
	}
	if h.cfg.OnBroadcast != nil {
		h.cfg.OnBroadcast(len(data), len(sinks))
	}
}
