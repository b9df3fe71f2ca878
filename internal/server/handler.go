package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/soar/padstate/internal/hub"
	"github.com/soar/padstate/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local viewer, any origin
	},
}

// startPad reads the optional 1-based ?pad= query. Anything else leaves the
// client on pad 1.
func startPad(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.URL.Query().Get("pad"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// stateHandler upgrades /ws connections into hub clients watching one pad.
type stateHandler struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	log         logger.Logger
}

func (s *stateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("state upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}

	client := hub.NewClient(s.hub, conn)
	if pad, ok := startPad(r); ok {
		client.SetPad(pad)
	}
	s.hub.Register(client)
	s.broadcaster.SendInitialState(client)

	go client.WritePump()
	go client.ReadPump(s.broadcaster)
}
