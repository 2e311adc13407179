/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	ognlog.go: thin wrappers over the stdlib logger. Three levels
	(info/warn/error) always print; debug only prints when Debug is set,
	so a single flag controls verbosity without pulling in a structured
	logging library.
*/

package ognlog

import "log"

// Debug gates Dbg output. Left false by default; the CLI flips it from
// --debug.
var Debug bool

func Inf(format string, args ...any) { log.Printf("INF "+format, args...) }
func Wrn(format string, args ...any) { log.Printf("WRN "+format, args...) }
func Err(format string, args ...any) { log.Printf("ERR "+format, args...) }

func Dbg(format string, args ...any) {
	if Debug {
		log.Printf("DBG "+format, args...)
	}
}
