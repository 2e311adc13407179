/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	timeseries.go: emits one line-protocol line per record to an
	underlying writer (a TCP connection to a time-series collector, or a
	file, depending on what the caller dials). The sink itself is
	transport-agnostic; wiring a specific collector is the caller's job.
*/

package sink

import (
	"bufio"
	"io"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/serialize"
)

// TimeSeries writes line-protocol lines to w.
type TimeSeries struct {
	w io.WriteCloser
	b *bufio.Writer
}

// NewTimeSeries wraps w (typically a net.Conn dialed to a line-protocol
// listener) as a time-series sink.
func NewTimeSeries(w io.WriteCloser) *TimeSeries {
	return &TimeSeries{w: w, b: bufio.NewWriter(w)}
}

func (s *TimeSeries) Write(c container.Container) error {
	line, err := serialize.LineProtocol(c)
	if err != nil {
		return err
	}
	if _, err := s.b.WriteString(line); err != nil {
		return err
	}
	if err := s.b.WriteByte('\n'); err != nil {
		return err
	}
	return s.b.Flush()
}

func (s *TimeSeries) Close() error {
	if err := s.b.Flush(); err != nil {
		s.w.Close()
		return err
	}
	return s.w.Close()
}
