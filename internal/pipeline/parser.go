/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	parser.go: the pipeline's second stage, raw line to ServerResponse.
	A batch of more than one line (only the stdin source produces these)
	is parsed with one goroutine per line; results are written back into
	a slice indexed by position so emission order matches input order,
	then emitted one at a time. This is the only parallelism inside a
	stage that spec §5 allows, and it exists purely to use spare cores on
	a historical stdin replay.
*/

package pipeline

import (
	"sync"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

// ParsedRecord pairs a ServerResponse with the arrival timestamp recovered
// or observed at the source stage.
type ParsedRecord struct {
	ArrivalTS time.Time
	Response  aprs.ServerResponse
}

// RunParser reads batches from in, parses every line, and emits one
// ParsedRecord per line (in input order) to out. RunParser closes out when
// in is closed, draining whatever is already in flight rather than
// stopping mid-batch.
func RunParser(in <-chan []RawLine, out chan<- ParsedRecord) {
	defer close(out)
	for batch := range in {
		for _, rec := range parseBatch(batch) {
			out <- rec
		}
	}
}

func parseBatch(batch []RawLine) []ParsedRecord {
	records := make([]ParsedRecord, len(batch))
	if len(batch) <= 1 {
		for i, raw := range batch {
			records[i] = ParsedRecord{ArrivalTS: raw.ArrivalTS, Response: aprs.ParseLine(raw.Line)}
		}
		return records
	}

	var wg sync.WaitGroup
	wg.Add(len(batch))
	for i, raw := range batch {
		go func(i int, raw RawLine) {
			defer wg.Done()
			records[i] = ParsedRecord{ArrivalTS: raw.ArrivalTS, Response: aprs.ParseLine(raw.Line)}
		}(i, raw)
	}
	wg.Wait()
	return records
}
