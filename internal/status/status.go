/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	status.go: the operator-facing HTTP surface, modeled on the teacher's
	management interface — /metrics (Prometheus), /healthz (liveness),
	and /live (a websocket tailing recently-enriched containers as
	JSON). None of these change sink semantics; they are read-only
	observability sitting beside the pipeline.
*/

package status

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/metrics"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes /metrics, /healthz, and /live over HTTP. The zero value
// is not usable; construct with NewServer.
type Server struct {
	Addr string
	hub  *hub
	mux  *http.ServeMux
}

// NewServer builds a status server listening on addr, tailing the last
// backlog containers to new /live subscribers.
func NewServer(addr string, backlog int) *Server {
	s := &Server{Addr: addr, hub: newHub(backlog)}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/live", s.handleLive)
	s.mux = mux
	return s
}

// Handler returns the server's http.Handler, for use in tests without
// binding a port.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe blocks serving the status endpoints on s.Addr.
func (s *Server) ListenAndServe() error {
	ognlog.Inf("status server: listening on %s", s.Addr)
	return http.ListenAndServe(s.Addr, s.mux)
}

// Publish fans c out to every connected /live subscriber and to the
// backlog new subscribers are replayed on connect. Publish never blocks on
// a slow subscriber: when a client's send buffer is full, this update is
// dropped for that client, which stays connected, rather than stalling
// the pipeline.
func (s *Server) Publish(c container.Container) {
	s.hub.publish(c)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ognlog.Wrn("status server: websocket upgrade failed: %v", err)
		return
	}
	s.hub.serve(conn)
}

func marshalForLive(c container.Container) ([]byte, error) {
	switch c.Kind {
	case container.KindPosition:
		return json.Marshal(c.Position)
	case container.KindStatus:
		return json.Marshal(c.Status)
	case container.KindServerComment:
		return json.Marshal(c.ServerComment)
	case container.KindParserError:
		return json.Marshal(c.ParserError)
	default:
		return json.Marshal(struct{}{})
	}
}
