/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	main.go: entrypoint. Parses configuration, builds the requested
	source/sink pair, and runs the pipeline until the upstream/stdin
	source stops or the process receives a shutdown signal. With
	--service set to anything but "run" it dispatches to the OS service
	manager instead of running the pipeline in the foreground.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/config"
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/geo"
	"github.com/ogn-network/ogn-ingest/internal/metrics"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
	"github.com/ogn-network/ogn-ingest/internal/pipeline"
	"github.com/ogn-network/ogn-ingest/internal/service"
	"github.com/ogn-network/ogn-ingest/internal/sink"
	"github.com/ogn-network/ogn-ingest/internal/status"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

func main() {
	settings, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ognlog.Debug = settings.Debug

	if settings.Service != "run" {
		msg, err := service.Dispatch(settings.Service, "--service=run")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(msg)
		return
	}

	if err := run(settings); err != nil {
		ognlog.Err("%v", err)
		os.Exit(1)
	}
}

func run(settings *config.Settings) error {
	src, err := buildSource(settings)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}
	snk, err := buildSink(settings)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}
	defer snk.Close()

	statusSrv := status.NewServer(settings.MetricsAddr, 256)
	go func() {
		if err := statusSrv.ListenAndServe(); err != nil {
			ognlog.Err("status server: %v", err)
		}
	}()

	observed := &observingSink{inner: snk, status: statusSrv}
	filter := pipeline.NewFilter(toCallsigns(settings.Included), toCallsigns(settings.Excluded))
	engine := validate.NewEngine(geo.NewService())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ognlog.Inf("starting ingest: source=%s target=%s batch-size=%s", settings.Source, settings.Target, humanize.Comma(int64(settings.BatchSize)))
	p := pipeline.New(src, filter, engine, observed)
	p.Run(ctx)
	ognlog.Inf("pipeline stopped")
	return nil
}

func toCallsigns(calls []string) []aprs.Callsign {
	out := make([]aprs.Callsign, len(calls))
	for i, c := range calls {
		out[i] = aprs.Callsign(c)
	}
	return out
}

// observingSink wraps the configured sink with metrics recording and the
// /live tail, so every sink kind gets the same observability for free.
type observingSink struct {
	inner  sink.Sink
	status *status.Server
}

func (o *observingSink) Write(c container.Container) error {
	metrics.RecordContainer(c)
	o.status.Publish(c)
	return o.inner.Write(c)
}

func (o *observingSink) Close() error { return o.inner.Close() }
