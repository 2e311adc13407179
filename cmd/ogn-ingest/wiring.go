/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	wiring.go: translates parsed Settings into the concrete Source and
	Sink implementations the pipeline needs.
*/

package main

import (
	"fmt"
	"os"

	"github.com/ogn-network/ogn-ingest/internal/config"
	"github.com/ogn-network/ogn-ingest/internal/pipeline"
	"github.com/ogn-network/ogn-ingest/internal/sink"
)

func buildSource(settings *config.Settings) (pipeline.Source, error) {
	switch settings.Source {
	case "feed":
		return pipeline.NewFeedSource(settings.FeedAddr), nil
	case "stdin":
		return pipeline.NewStdinSource(os.Stdin, settings.BatchSize), nil
	default:
		return nil, fmt.Errorf("unknown source %q", settings.Source)
	}
}

func buildSink(settings *config.Settings) (sink.Sink, error) {
	switch settings.Target {
	case "stdout":
		return sink.NewStdout(os.Stdout, sink.FormatRaw), nil
	case "relational":
		return sink.NewRelational(settings.DatabaseURL)
	case "timeseries":
		return sink.NewTimeSeries(os.Stdout), nil
	case "broker":
		return sink.NewBroker(settings.BrokerHost, settings.BrokerPort)
	default:
		return nil, fmt.Errorf("unknown target %q", settings.Target)
	}
}
