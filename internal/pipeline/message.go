/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	message.go: the message types that flow between pipeline stages.
	Stages never share state beyond what rides on these channels.
*/

package pipeline

import "time"

// RawLine is a source stage's unit of output: a line of text and the
// timestamp it arrived at (from the feed socket's clock, or recovered from
// a stdin "<nanos>: " prefix).
type RawLine struct {
	ArrivalTS time.Time
	Line      string
}
