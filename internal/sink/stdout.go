/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	stdout.go: prints one record per line in the chosen Format. Raw mode
	prefixes with the arrival timestamp in nanoseconds, matching the
	stdin source's own input grammar so a stdout pipeline's output can be
	replayed straight back in as another process's stdin source.
*/

package sink

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/serialize"
)

// Stdout writes every record to an underlying writer, one line at a time.
type Stdout struct {
	w      *bufio.Writer
	format Format
}

// NewStdout wraps w (typically os.Stdout) as a line-oriented sink.
func NewStdout(w io.Writer, format Format) *Stdout {
	return &Stdout{w: bufio.NewWriter(w), format: format}
}

func (s *Stdout) Write(c container.Container) error {
	var line string
	switch s.format {
	case FormatRaw:
		line = serialize.Raw(c)
	case FormatJSON:
		b, err := serialize.JSON(c)
		if err != nil {
			return err
		}
		line = string(b)
	case FormatLineProtocol:
		lp, err := serialize.LineProtocol(c)
		if err != nil {
			return err
		}
		line = lp
	default:
		return fmt.Errorf("sink: stdout: unknown format %v", s.format)
	}
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *Stdout) Close() error { return s.w.Flush() }
