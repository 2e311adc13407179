/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	hub.go: a small fixed-size backlog plus fan-out broadcast for /live
	subscribers. The hub owns its subscriber set exclusively behind a
	mutex; publishers and the websocket read/write goroutines never touch
	each other's state directly.
*/

package status

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
)

const subscriberSendBuffer = 32

type hub struct {
	mu          sync.Mutex
	backlog     []container.Container
	backlogSize int
	subscribers map[chan container.Container]struct{}
}

func newHub(backlogSize int) *hub {
	if backlogSize <= 0 {
		backlogSize = 1
	}
	return &hub{
		backlogSize: backlogSize,
		subscribers: make(map[chan container.Container]struct{}),
	}
}

func (h *hub) publish(c container.Container) {
	h.mu.Lock()
	h.backlog = append(h.backlog, c)
	if len(h.backlog) > h.backlogSize {
		h.backlog = h.backlog[len(h.backlog)-h.backlogSize:]
	}
	for ch := range h.subscribers {
		select {
		case ch <- c:
		default:
			// Subscriber is behind; drop rather than block the publisher.
		}
	}
	h.mu.Unlock()
}

func (h *hub) subscribe() (chan container.Container, []container.Container) {
	ch := make(chan container.Container, subscriberSendBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	backlog := make([]container.Container, len(h.backlog))
	copy(backlog, h.backlog)
	h.mu.Unlock()
	return ch, backlog
}

func (h *hub) unsubscribe(ch chan container.Container) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
}

// serve streams the backlog and then live updates to conn until the
// connection closes. gorilla/websocket requires someone to keep reading
// from the connection to process control frames, so a reader goroutine
// drains incoming frames purely to detect the client going away.
func (h *hub) serve(conn *websocket.Conn) {
	ch, backlog := h.subscribe()
	defer h.unsubscribe(ch)
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, c := range backlog {
		if !writeLive(conn, c) {
			return
		}
	}
	for {
		select {
		case c := <-ch:
			if !writeLive(conn, c) {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeLive(conn *websocket.Conn, c container.Container) bool {
	payload, err := marshalForLive(c)
	if err != nil {
		ognlog.Err("status server: marshal for /live: %v", err)
		return true
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return false
	}
	return true
}
