// Package feed streams pad transitions to WebSocket subscribers on /events.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lxzan/gws"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

const (
	sessionKey = "id"
	queueSize  = 1024
)

// Message is one frame written to subscribers.
type Message struct {
	Type      string `json:"type"` // "hello" or "transition"
	Session   string `json:"session,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds

	*gamepad.Transition
}

// Feed fans transitions out to every open /events connection. Each
// connection gets its own session id, sent in the hello frame.
type Feed struct {
	gws.BuiltinEventHandler

	upgrader *gws.Upgrader
	log      logger.Logger
	queue    chan gamepad.Transition

	mu    sync.RWMutex
	conns map[string]*gws.Conn
}

func New(log logger.Logger) *Feed {
	if log == nil {
		log = logger.Discard{}
	}
	f := &Feed{
		log:   log,
		queue: make(chan gamepad.Transition, queueSize),
		conns: make(map[string]*gws.Conn),
	}
	f.upgrader = gws.NewUpgrader(f, &gws.ServerOption{
		ParallelEnabled: true,
	})
	return f
}

// Listeners returns callbacks for the pad pool. They never block the loop
// thread; transitions are dropped while the queue is full.
func (f *Feed) Listeners() gamepad.Listeners {
	return gamepad.TransitionListeners(f.Publish)
}

// Publish queues a transition for broadcast.
func (f *Feed) Publish(tr gamepad.Transition) {
	select {
	case f.queue <- tr:
	default:
	}
}

// Len returns the number of open connections.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.conns)
}

// Run writes queued transitions to all connections until ctx is done.
func (f *Feed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case tr := <-f.queue:
			data, err := encode(Message{Type: "transition", Timestamp: tr.Time.UnixMilli(), Transition: &tr})
			if err != nil {
				f.log.Error("error marshaling transition: %v", err)
				continue
			}
			f.broadcast(data)
		}
	}
}

func (f *Feed) broadcast(data []byte) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, conn := range f.conns {
		conn.WriteAsync(gws.OpcodeText, data, nil)
	}
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, conn := range f.conns {
		conn.WriteClose(1001, nil)
		delete(f.conns, id)
	}
}

// ServeHTTP upgrades the request and starts the connection's read loop.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r)
	if err != nil {
		f.log.Warn("events upgrade failed: %v", err)
		return
	}
	conn.Session().Store(sessionKey, uuid.NewString())
	go conn.ReadLoop()
}

func sessionID(conn *gws.Conn) string {
	v, _ := conn.Session().Load(sessionKey)
	id, _ := v.(string)
	return id
}

func (f *Feed) OnOpen(conn *gws.Conn) {
	id := sessionID(conn)

	f.mu.Lock()
	f.conns[id] = conn
	n := len(f.conns)
	f.mu.Unlock()
	f.log.Info("events subscriber %s connected (total: %d)", id, n)

	data, err := encode(Message{Type: "hello", Session: id, Timestamp: time.Now().UnixMilli()})
	if err == nil {
		conn.WriteMessage(gws.OpcodeText, data)
	}
}

func (f *Feed) OnClose(conn *gws.Conn, err error) {
	id := sessionID(conn)

	f.mu.Lock()
	delete(f.conns, id)
	n := len(f.conns)
	f.mu.Unlock()
	f.log.Info("events subscriber %s disconnected (total: %d): %v", id, n, err)
}

func (f *Feed) OnPing(conn *gws.Conn, payload []byte) {
	conn.WritePong(payload)
}

// OnMessage discards client frames; the feed is one-way.
func (f *Feed) OnMessage(conn *gws.Conn, message *gws.Message) {
	message.Close()
}

func encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
