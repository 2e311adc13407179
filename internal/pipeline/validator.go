/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	validator.go: the pipeline's fourth stage. Wraps the C7 validation
	engine and the C8 container conversion: every ParsedRecord becomes
	exactly one Container, enriched when possible and degraded (never
	dropped) when geometry or timestamp reconstruction falls short.
*/

package pipeline

import (
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

// RunValidator reads from in, enriches each record with engine, converts it
// to a Container, and forwards it to out. RunValidator closes out when in
// is closed. The engine is this stage's exclusive state: no other stage
// touches it.
func RunValidator(in <-chan ParsedRecord, out chan<- container.Container, engine *validate.Engine) {
	defer close(out)
	for rec := range in {
		enr := engine.Process(rec.Response, rec.ArrivalTS)
		out <- container.FromServerResponse(rec.Response, enr)
	}
}
