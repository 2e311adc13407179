package main

import (
	"testing"

	"github.com/ogn-network/ogn-ingest/internal/config"
)

func TestBuildSourceFeed(t *testing.T) {
	s := &config.Settings{Source: "feed", FeedAddr: "aprs.glidernet.org:14580"}
	src, err := buildSource(s)
	if err != nil {
		t.Fatalf("buildSource() error = %v", err)
	}
	if src == nil {
		t.Fatal("buildSource() returned a nil Source")
	}
}

func TestBuildSourceStdin(t *testing.T) {
	s := &config.Settings{Source: "stdin", BatchSize: 16}
	src, err := buildSource(s)
	if err != nil {
		t.Fatalf("buildSource() error = %v", err)
	}
	if src == nil {
		t.Fatal("buildSource() returned a nil Source")
	}
}

func TestBuildSourceUnknown(t *testing.T) {
	if _, err := buildSource(&config.Settings{Source: "bogus"}); err == nil {
		t.Error("buildSource() error = nil, want an error for an unknown source")
	}
}

func TestBuildSinkStdout(t *testing.T) {
	snk, err := buildSink(&config.Settings{Target: "stdout"})
	if err != nil {
		t.Fatalf("buildSink() error = %v", err)
	}
	if snk == nil {
		t.Fatal("buildSink() returned a nil Sink")
	}
}

func TestBuildSinkUnknown(t *testing.T) {
	if _, err := buildSink(&config.Settings{Target: "bogus"}); err == nil {
		t.Error("buildSink() error = nil, want an error for an unknown target")
	}
}
