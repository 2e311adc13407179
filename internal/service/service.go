/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	service.go: optional OS-service lifecycle for the ingest daemon, via
	takama/daemon. "run" (the CLI default) never touches this package;
	install/remove/start/stop only matter when an operator wants systemd
	(or the platform's native service manager) supervising the process.
*/

package service

import (
	"fmt"

	"github.com/takama/daemon"
)

const (
	name        = "ogn-ingest"
	description = "OGN/APRS beacon ingestion pipeline"
)

// Dispatch performs the named service-lifecycle action (one of
// "install", "remove", "start", "stop") and returns the daemon's status
// string. args are passed through to Install, becoming the arguments the
// installed service invokes the binary with (normally "--service=run" plus
// whatever sink/source flags the operator wants running permanently).
func Dispatch(action string, args ...string) (string, error) {
	d, err := daemon.New(name, description, daemon.SystemDaemon)
	if err != nil {
		return "", fmt.Errorf("service: %w", err)
	}

	switch action {
	case "install":
		return d.Install(args...)
	case "remove":
		return d.Remove()
	case "start":
		return d.Start()
	case "stop":
		return d.Stop()
	default:
		return "", fmt.Errorf("service: unknown action %q", action)
	}
}
