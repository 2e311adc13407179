/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	metrics.go: Prometheus counters for pipeline health, in the spirit of
	the teacher's own traffic/GPS/UAT stat counters. Registered against a
	package-level registry that the status server mounts at /metrics.
	Packet, parse-failure and plausibility counts are recorded by the sink
	stage wrapper in cmd/ogn-ingest, flush counts and durations by the
	relational sink's flush goroutine; recording from several goroutines
	is safe since the prometheus client types are internally synchronized.
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PacketsByVariant counts parsed records by container kind
	// (position, status, server_comment, parser_error, unknown).
	PacketsByVariant = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ogn_ingest",
		Name:      "packets_total",
		Help:      "Number of records produced by the validator, labeled by variant.",
	}, []string{"variant"})

	// ParseFailures counts lines that failed to parse as a valid APRS
	// packet or server comment.
	ParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ogn_ingest",
		Name:      "parse_failures_total",
		Help:      "Number of lines that produced a ParserError container.",
	})

	// PlausibilityBits counts how often each plausibility bit is set
	// across enriched position records, labeled by bit name.
	PlausibilityBits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ogn_ingest",
		Name:      "plausibility_bits_total",
		Help:      "Occurrences of each plausibility-mask bit across position records.",
	}, []string{"bit"})

	// SinkFlushes counts completed sink flush operations, labeled by sink
	// kind and outcome ("ok"/"error").
	SinkFlushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ogn_ingest",
		Name:      "sink_flushes_total",
		Help:      "Completed sink flush operations, labeled by sink and outcome.",
	}, []string{"sink", "outcome"})

	// SinkFlushDuration measures the wall-clock time of sink flush
	// operations, labeled by sink kind.
	SinkFlushDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ogn_ingest",
		Name:      "sink_flush_duration_seconds",
		Help:      "Sink flush latency, labeled by sink.",
	}, []string{"sink"})
)

// Registry is the registry cmd/ogn-ingest exposes over /metrics. Using a
// dedicated registry rather than the global default keeps the HTTP surface
// limited to exactly the series this package defines.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(PacketsByVariant, ParseFailures, PlausibilityBits, SinkFlushes, SinkFlushDuration)
}
