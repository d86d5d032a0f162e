/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package publisher

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tanktwin/common/dto"
)

const (
	clientSendBuffer = 16
	writeWait        = 5 * time.Second
)

type wsEnvelope struct {
	Type string      `json:"type"` // snapshot or alert
	Data interface{} `json:"data"`
}

// Hub fans snapshots and alerts out to connected dashboard viewers.
// A viewer that cannot keep up is disconnected rather than back-pressuring
// the broadcaster.
type Hub struct {
	lc       logger.LoggingClient
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]chan []byte
}

func NewHub(lc logger.LoggingClient) *Hub {
	return &Hub{
		lc: lc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

func (h *Hub) OnSnapshot(tanks []dto.Tank) {
	h.broadcast(wsEnvelope{Type: "snapshot", Data: tanks})
}

func (h *Hub) OnAlert(alert dto.Alert) {
	h.broadcast(wsEnvelope{Type: "alert", Data: alert})
}

func (h *Hub) broadcast(envelope wsEnvelope) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		h.lc.Errorf("failed to marshal %s envelope: %v", envelope.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			h.lc.Warnf("viewer %s too slow, disconnecting", conn.RemoteAddr())
			delete(h.clients, conn)
			close(send)
		}
	}
}

// Serve upgrades the request and registers the viewer until it disconnects
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.lc.Errorf("websocket upgrade failed: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}

	send := make(chan []byte, clientSendBuffer)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	h.lc.Infof("dashboard viewer connected: %s", conn.RemoteAddr())

	go h.writeLoop(conn, send)
	go h.readLoop(conn)
	return nil
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan []byte) {
	defer conn.Close()
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readLoop only drains control frames and detects the client going away
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
}

func (h *Hub) ViewerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
