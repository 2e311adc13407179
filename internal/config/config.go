/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	config.go: command-line configuration. Flags only (stdlib flag
	package) rather than a flags library or config file format — there
	is exactly one process and one set of knobs, and the flag parser
	itself is an external collaborator we don't own.
*/

package config

import (
	"flag"
	"fmt"
	"strings"
)

// ConfigError wraps an invalid CLI/environment configuration detected at
// startup, before any pipeline stage is spawned.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config: " + e.Msg }

// Settings holds every CLI-configurable knob.
type Settings struct {
	Source string // "feed" or "stdin"
	Target string // "stdout", "relational", "timeseries", "broker"

	BatchSize int

	FeedAddr string // host:port of the upstream APRS-IS server, used when Source == "feed"

	DatabaseURL string

	BrokerHost string
	BrokerPort int

	Included []string
	Excluded []string

	MetricsAddr string

	Service string // "install", "remove", "start", "stop", "run"

	Debug bool
}

var validSources = map[string]bool{"feed": true, "stdin": true}
var validTargets = map[string]bool{"stdout": true, "relational": true, "timeseries": true, "broker": true}
var validServiceActions = map[string]bool{"install": true, "remove": true, "start": true, "stop": true, "run": true}

// Parse parses args (excluding the program name) into a Settings,
// returning a *ConfigError for any invalid combination.
func Parse(args []string) (*Settings, error) {
	fs := flag.NewFlagSet("ogn-ingest", flag.ContinueOnError)

	s := &Settings{}
	var included, excluded string

	fs.StringVar(&s.Source, "source", "feed", "input source: feed|stdin")
	fs.StringVar(&s.Target, "target", "stdout", "output target: stdout|relational|timeseries|broker")
	fs.IntVar(&s.BatchSize, "batch-size", 16384, "stdin batch size in lines")
	fs.StringVar(&s.FeedAddr, "feed-addr", "aprs.glidernet.org:14580", "upstream APRS-IS host:port, used when --source=feed")
	fs.StringVar(&s.DatabaseURL, "database-url", "", "PostgreSQL connection string, required when --target=relational")
	fs.StringVar(&s.BrokerHost, "broker-host", "", "MQTT broker host, required when --target=broker")
	fs.IntVar(&s.BrokerPort, "broker-port", 1883, "MQTT broker port")
	fs.StringVar(&included, "included", "", "comma-separated destination callsign allowlist")
	fs.StringVar(&excluded, "excluded", "", "comma-separated destination callsign denylist")
	fs.StringVar(&s.MetricsAddr, "metrics-addr", ":9206", "listen address for /metrics, /healthz, /live")
	fs.StringVar(&s.Service, "service", "run", "service lifecycle action: install|remove|start|stop|run")
	fs.BoolVar(&s.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, &ConfigError{Msg: err.Error()}
	}

	s.Included = splitCallsigns(included)
	s.Excluded = splitCallsigns(excluded)

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func splitCallsigns(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Settings) validate() error {
	if !validSources[s.Source] {
		return &ConfigError{Msg: fmt.Sprintf("unknown --source %q", s.Source)}
	}
	if !validTargets[s.Target] {
		return &ConfigError{Msg: fmt.Sprintf("unknown --target %q", s.Target)}
	}
	if !validServiceActions[s.Service] {
		return &ConfigError{Msg: fmt.Sprintf("unknown --service %q", s.Service)}
	}
	if s.BatchSize <= 0 {
		return &ConfigError{Msg: "--batch-size must be positive"}
	}
	if s.Target == "relational" && s.DatabaseURL == "" {
		return &ConfigError{Msg: "--database-url is required when --target=relational"}
	}
	if s.Target == "broker" && s.BrokerHost == "" {
		return &ConfigError{Msg: "--broker-host is required when --target=broker"}
	}
	return nil
}
