package broadcast

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/botlink/internal/log"
	"github.com/san-kum/botlink/internal/world"
)

const (
	writeWait     = 2 * time.Second
	defaultBuffer = 16
)

// Message is the envelope of everything sent to a client.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type hello struct {
	ID string `json:"id"`
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans snapshots out to websocket clients. It is a sim.Observer: OnStep
// never blocks, a client that falls behind loses snapshots instead.
type Hub struct {
	upgrader websocket.Upgrader
	logger   log.Logger
	buffer   int

	mu     sync.Mutex
	subs   map[string]*subscriber
	latest []byte
	closed bool

	dropped atomic.Uint64
}

func NewHub(logger log.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
		buffer: defaultBuffer,
		subs:   make(map[string]*subscriber),
	}
}

// OnStep publishes s as a "sync" message to every client.
func (h *Hub) OnStep(s world.Snapshot) {
	data, err := json.Marshal(Message{Type: "sync", Data: s})
	if err != nil {
		h.logger.Errorf("marshal snapshot %d: %v", s.Step, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = data
	for _, sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.subs[sub.id] = sub
	return true
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()

	if ok {
		sub.close()
	}
}

// ServeHTTP upgrades the request and streams snapshots until the client
// goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("upgrade: %v", err)
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.buffer),
	}

	greeting, _ := json.Marshal(Message{Type: "system", Data: hello{ID: sub.id}})
	sub.send <- greeting

	h.mu.Lock()
	if h.latest != nil {
		sub.send <- h.latest
	}
	h.mu.Unlock()

	if !h.register(sub) {
		conn.Close()
		return
	}
	logger := h.logger.WithField("client", sub.id)
	logger.Infof("client connected from %s", r.RemoteAddr)

	go h.writePump(sub, logger)
	h.readPump(sub)

	h.unregister(sub.id)
	logger.Infof("client disconnected")
}

func (h *Hub) writePump(sub *subscriber, logger log.Logger) {
	defer sub.conn.Close()

	for data := range sub.send {
		if err := sub.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logger.Warnf("set write deadline: %v", err)
			return
		}
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warnf("write: %v", err)
			return
		}
	}

	deadline := time.Now().Add(writeWait)
	_ = sub.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// readPump discards client messages; it only detects the connection going away.
func (h *Hub) readPump(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*subscriber)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped counts snapshots not delivered to a slow client.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Handler serves the hub on /ws and a liveness probe on /healthz.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"clients": h.Len(), "dropped": h.Dropped()})
	})
	return mux
}
