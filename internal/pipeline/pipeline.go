/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	pipeline.go: wires the five stages into the message graph described
	by spec §4.10/§5 and runs it to completion. Each stage is its own
	goroutine communicating only through the channels below; cancelling
	ctx stops the source, and every downstream stage drains whatever is
	already in flight before exiting, in order, as each stage's input
	channel closes behind it.
*/

package pipeline

import (
	"context"
	"sync"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/validate"

	"github.com/ogn-network/ogn-ingest/internal/sink"
)

// chanBuffer is the per-stage channel capacity. It exists only to absorb
// bursts between stages running at slightly different speeds; no stage
// depends on buffering for correctness.
const chanBuffer = 64

// Pipeline is the assembled five-stage graph: source, parser, filter,
// validator, sink.
type Pipeline struct {
	Source Source
	Filter *Filter
	Engine *validate.Engine
	Sink   sink.Sink
}

// New assembles a Pipeline from its stages.
func New(src Source, filter *Filter, engine *validate.Engine, s sink.Sink) *Pipeline {
	return &Pipeline{Source: src, Filter: filter, Engine: engine, Sink: s}
}

// Run wires the stages together and blocks until the sink stage has
// drained, i.e. until the source stops (ctx cancellation, feed EOF, or
// stdin EOF) and every record already admitted has flowed all the way
// through.
func (p *Pipeline) Run(ctx context.Context) {
	rawCh := make(chan []RawLine, chanBuffer)
	parsedCh := make(chan ParsedRecord, chanBuffer)
	filteredCh := make(chan ParsedRecord, chanBuffer)
	containerCh := make(chan container.Container, chanBuffer)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); p.Source.Run(ctx, rawCh) }()
	go func() { defer wg.Done(); RunParser(rawCh, parsedCh) }()
	go func() { defer wg.Done(); p.Filter.Run(parsedCh, filteredCh) }()
	go func() { defer wg.Done(); RunValidator(filteredCh, containerCh, p.Engine) }()

	RunSink(containerCh, p.Sink)
	wg.Wait()
}
