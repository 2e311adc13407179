package sink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/geo"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func positionContainerFixture(t *testing.T) container.Container {
	t.Helper()
	line := "FLRDDA1B2>APRS,qAS,GLIDERN1:/074548h5201.00N/01300.00E'180/045/A=003399 id06DDFAA3 -613fpm"
	resp := aprs.ParseLine(line)
	engine := validate.NewEngine(geo.NewService())
	enr := engine.Process(resp, time.Date(2024, 7, 4, 7, 45, 50, 0, time.UTC))
	return container.FromServerResponse(resp, enr)
}

func TestStdoutWriteRaw(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf, FormatRaw)
	if err := s.Write(positionContainerFixture(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "FLRDDA1B2>APRS") {
		t.Errorf("output = %q, want it to contain the raw line", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("output does not end with a newline")
	}
}

func TestStdoutWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf, FormatJSON)
	if err := s.Write(positionContainerFixture(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"src_call":"FLRDDA1B2"`) {
		t.Errorf("output = %q, want JSON with src_call", buf.String())
	}
}

func TestTimeSeriesWrite(t *testing.T) {
	var buf bytes.Buffer
	ts := NewTimeSeries(nopWriteCloser{&buf})
	if err := ts.Write(positionContainerFixture(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "positions,") {
		t.Errorf("output = %q, want a positions line-protocol line", buf.String())
	}
	if err := ts.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestBrokerTopic(t *testing.T) {
	if got, want := brokerTopic("GLIDERN1", "FLRDDA1B2"), "ogn/GLIDERN1/FLRDDA1B2"; got != want {
		t.Errorf("brokerTopic() = %q, want %q", got, want)
	}
	if got, want := brokerTopic("", "FLRDDA1B2"), "ogn/FLRDDA1B2"; got != want {
		t.Errorf("brokerTopic() = %q, want %q", got, want)
	}
}

func TestBrokerMessagePosition(t *testing.T) {
	topic, payload, err := brokerMessage(positionContainerFixture(t))
	if err != nil {
		t.Fatalf("brokerMessage() error = %v", err)
	}
	if topic != "ogn/GLIDERN1/FLRDDA1B2" {
		t.Errorf("topic = %q, want ogn/GLIDERN1/FLRDDA1B2", topic)
	}
	if !strings.Contains(string(payload), "altitude") {
		t.Errorf("payload = %s, want an altitude field", payload)
	}
}

func TestTableName(t *testing.T) {
	cases := map[container.Kind]string{
		container.KindPosition:      "positions",
		container.KindStatus:        "statuses",
		container.KindServerComment: "server_comments",
		container.KindParserError:   "errors",
	}
	for kind, want := range cases {
		if got := tableName(kind); got != want {
			t.Errorf("tableName(%v) = %q, want %q", kind, got, want)
		}
	}
}
