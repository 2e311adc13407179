/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	sink.go: the Sink interface every C11 output target implements, plus
	the Format enum the stdout sink renders through.
*/

package sink

import "github.com/ogn-network/ogn-ingest/internal/container"

// Sink is the terminal stage of the pipeline: it consumes a container and
// is responsible for its own buffering/flushing/connection lifecycle.
type Sink interface {
	Write(c container.Container) error
	Close() error
}

// Format selects how a record is rendered to text, used by sinks that
// don't have an inherent wire format of their own (stdout).
type Format int

const (
	FormatRaw Format = iota
	FormatJSON
	FormatLineProtocol
)
