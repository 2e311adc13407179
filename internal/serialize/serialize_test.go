package serialize

import (
	"strings"
	"testing"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/geo"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

func positionContainerFixture(t *testing.T) container.Container {
	t.Helper()
	line := "FLRDDA1B2>APRS,qAS,GLIDERN1:/074548h5201.00N/01300.00E'180/045/A=003399 id06DDFAA3 -613fpm"
	resp := aprs.ParseLine(line)
	engine := validate.NewEngine(geo.NewService())
	enr := engine.Process(resp, time.Date(2024, 7, 4, 7, 45, 50, 0, time.UTC))
	return container.FromServerResponse(resp, enr)
}

func TestRaw(t *testing.T) {
	c := positionContainerFixture(t)
	got := Raw(c)
	if !strings.Contains(got, "FLRDDA1B2>APRS") {
		t.Errorf("Raw() = %q, want it to contain the original line", got)
	}
	if !strings.HasPrefix(got, "1720079150000000000: ") {
		t.Errorf("Raw() = %q, want a leading nanosecond timestamp", got)
	}
}

func TestJSONOmitsUnsetFields(t *testing.T) {
	c := positionContainerFixture(t)
	b, err := JSON(c)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"course":180`) {
		t.Errorf("JSON() = %s, want course=180", s)
	}
	if strings.Contains(s, `"rainfall_1h"`) {
		t.Errorf("JSON() = %s, want rainfall_1h omitted (unset)", s)
	}
}

func TestLineProtocolPosition(t *testing.T) {
	c := positionContainerFixture(t)
	line, err := LineProtocol(c)
	if err != nil {
		t.Fatalf("LineProtocol() error = %v", err)
	}
	if !strings.HasPrefix(line, "positions,src_call=FLRDDA1B2,dst_call=APRS,receiver=GLIDERN1 ") {
		t.Errorf("LineProtocol() = %q, want a positions measurement with src/dst/receiver tags", line)
	}
	if !strings.Contains(line, "course=180") {
		t.Errorf("LineProtocol() = %q, want course=180 field", line)
	}
}

func TestCSVRowMatchesHeaderWidth(t *testing.T) {
	c := positionContainerFixture(t)
	header, err := CSVHeader(container.KindPosition)
	if err != nil {
		t.Fatalf("CSVHeader() error = %v", err)
	}
	row, err := CSVRow(c)
	if err != nil {
		t.Fatalf("CSVRow() error = %v", err)
	}
	if len(row) != len(header) {
		t.Fatalf("len(row) = %d, len(header) = %d, want equal", len(row), len(header))
	}

	out, err := EncodeCSV(header, [][]string{row})
	if err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	if !strings.Contains(out, "FLRDDA1B2") {
		t.Errorf("EncodeCSV() = %q, want it to contain the src_call", out)
	}
}

func TestParserErrorSerialization(t *testing.T) {
	resp := aprs.ParseLine("not a valid line")
	engine := validate.NewEngine(geo.NewService())
	c := container.FromServerResponse(resp, engine.Process(resp, time.Now()))

	if _, err := JSON(c); err != nil {
		t.Errorf("JSON() error = %v", err)
	}
	line, err := LineProtocol(c)
	if err != nil {
		t.Fatalf("LineProtocol() error = %v", err)
	}
	if !strings.HasPrefix(line, "errors ") {
		t.Errorf("LineProtocol() = %q, want the errors measurement", line)
	}
}
