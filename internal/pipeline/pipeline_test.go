package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/geo"
	"github.com/ogn-network/ogn-ingest/internal/validate"

	"github.com/ogn-network/ogn-ingest/internal/sink"
)

func TestPipelineEndToEnd(t *testing.T) {
	lines := []string{
		"1720078548000000000: FLRDDA1B2>APRS,qAS,GLIDERN1:/074548h5201.00N/01300.00E'180/045/A=003399 id06DDFAA3",
		"1720078549000000000: # aprsc 2.1.19-g730c5c1 26 Jul 2024 12:00:00 GMT GLIDERN1 1.2.3.4:14580",
		"1720078550000000000: this will not parse as anything sensible:::",
		"1720078551000000000: FLRDDA1B2>APRS,qAS,GLIDERN1:>CPU:0.1 RAM:100/200MB NTP:1 Acfts:5",
	}
	input := strings.NewReader(strings.Join(lines, "\n"))

	var buf bytes.Buffer
	src := NewStdinSource(input, 4)
	filter := NewFilter(nil, nil)
	engine := validate.NewEngine(geo.NewService())
	out := sink.NewStdout(&buf, sink.FormatRaw)

	p := New(src, filter, engine, out)
	p.Run(context.Background())

	output := buf.String()
	recordCount := strings.Count(output, "\n")
	if recordCount != 4 {
		t.Fatalf("got %d output lines, want 4: %q", recordCount, output)
	}
	if !strings.Contains(output, "1720078548000000000: FLRDDA1B2") {
		t.Errorf("output missing the position record's raw line: %q", output)
	}
}

func TestPipelineAppliesFilter(t *testing.T) {
	lines := []string{
		"1: FLRDDA1B2>APRS,qAS,GLIDERN1:/074548h5201.00N/01300.00E'180/045/A=003399",
		"2: FLRDDA1B2>OTHER,qAS,GLIDERN1:/074548h5201.00N/01300.00E'180/045/A=003399",
	}
	input := strings.NewReader(strings.Join(lines, "\n"))

	var buf bytes.Buffer
	src := NewStdinSource(input, 4)
	filter := NewFilter(nil, []aprs.Callsign{"OTHER"})
	engine := validate.NewEngine(geo.NewService())
	out := sink.NewStdout(&buf, sink.FormatRaw)

	p := New(src, filter, engine, out)
	p.Run(context.Background())

	output := buf.String()
	if strings.Count(output, "\n") != 1 {
		t.Fatalf("got %d output lines, want 1 (one record excluded): %q", strings.Count(output, "\n"), output)
	}
	if !strings.Contains(output, "APRS,qAS") {
		t.Errorf("surviving record should be the one addressed to APRS: %q", output)
	}
}
