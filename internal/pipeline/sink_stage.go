/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	sink_stage.go: the pipeline's fifth and final stage. Writes every
	container to the configured sink in arrival order; a write failure is
	logged and that single record is dropped (at-most-once), matching
	SinkError handling in spec §7 — the stage itself never stops on a
	write error.
*/

package pipeline

import (
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
	"github.com/ogn-network/ogn-ingest/internal/sink"
)

// RunSink drains in, writing every container to s, until in is closed.
func RunSink(in <-chan container.Container, s sink.Sink) {
	for c := range in {
		if err := s.Write(c); err != nil {
			ognlog.Err("sink: write failed: %v", err)
		}
	}
}
