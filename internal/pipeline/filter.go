/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	filter.go: the pipeline's third stage. Drops AprsPacket records by
	destination callsign; every other ServerResponse variant (server
	comments, parser errors) always passes through untouched, since
	filtering only makes sense for traffic that names a destination.
*/

package pipeline

import (
	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

// Filter applies the include-allowlist-wins-else-exclude-denylist rule to
// AprsPacket destination callsigns.
type Filter struct {
	included map[aprs.Callsign]struct{}
	excluded map[aprs.Callsign]struct{}
}

// NewFilter builds a Filter from an include allowlist and an exclude
// denylist. An empty included list means no allowlist is in effect.
func NewFilter(included, excluded []aprs.Callsign) *Filter {
	f := &Filter{
		included: make(map[aprs.Callsign]struct{}, len(included)),
		excluded: make(map[aprs.Callsign]struct{}, len(excluded)),
	}
	for _, c := range included {
		f.included[c] = struct{}{}
	}
	for _, c := range excluded {
		f.excluded[c] = struct{}{}
	}
	return f
}

// Pass reports whether rec should continue down the pipeline.
func (f *Filter) Pass(rec ParsedRecord) bool {
	if rec.Response.Kind != aprs.ResponsePacket {
		return true
	}
	dst := rec.Response.Packet.To
	if len(f.included) > 0 {
		_, ok := f.included[dst]
		return ok
	}
	if len(f.excluded) > 0 {
		_, ok := f.excluded[dst]
		return !ok
	}
	return true
}

// Run reads from in, drops filtered records, and forwards the rest to out.
// Run closes out when in is closed.
func (f *Filter) Run(in <-chan ParsedRecord, out chan<- ParsedRecord) {
	defer close(out)
	for rec := range in {
		if f.Pass(rec) {
			out <- rec
		}
	}
}
