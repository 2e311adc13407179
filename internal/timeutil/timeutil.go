/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	timeutil.go: reconstructs the absolute UTC time implied by a truncated
	on-air timestamp. APRS never carries a year, so every
	reconstruction is relative to a reference instant — normally the most
	recent APRS-IS server timestamp, falling back to local wall-clock time
	when no server feed is configured.
*/

package timeutil

import (
	"errors"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

// ErrMissingTimestamp is returned by Reconstruct when a Position or Status
// packet that is expected to carry a timestamp does not have one.
var ErrMissingTimestamp = errors.New("timeutil: expected timestamp is missing")

const dayWrapLow, dayWrapHigh = -89000, -82800
const sameDayLow, sameDayHigh = -3600, 3600
const nightWrapLow, nightWrapHigh = 82800, 89000

// GuessDatetime maps a truncated Timestamp to an absolute UTC instant using
// reference as the ambiguity-resolving anchor. HHMMSS timestamps resolve to
// the reference's calendar date, then shift by one day if that minimizes
// distance to reference across a midnight boundary; anything outside the
// day-wrap/night-wrap/same-day bands is rejected as too ambiguous.
// DDHHMM timestamps are never resolved (unimplemented upstream; see
// DESIGN.md).
func GuessDatetime(ts aprs.Timestamp, reference time.Time) (time.Time, bool) {
	if ts.Kind != aprs.TimestampHHMMSS {
		return time.Time{}, false
	}

	reference = reference.UTC()
	candidate := time.Date(reference.Year(), reference.Month(), reference.Day(),
		ts.H1, ts.Min, ts.S3, 0, time.UTC)

	delta := reference.Sub(candidate).Seconds()

	switch {
	case delta > dayWrapLow && delta < dayWrapHigh:
		return candidate.AddDate(0, 0, -1), true
	case delta > sameDayLow && delta < sameDayHigh:
		return candidate, true
	case delta > nightWrapLow && delta < nightWrapHigh:
		return candidate.AddDate(0, 0, 1), true
	default:
		return time.Time{}, false
	}
}

// Reconstruct is the entry point used by the validation engine: it demands
// a timestamp be present (returning ErrMissingTimestamp otherwise) and
// reconstructs it against reference. A false ok with a nil error means the
// timestamp was present but too ambiguous (or a DDHHMM form) to resolve;
// this is a silent degradation, not a failure.
func Reconstruct(ts *aprs.Timestamp, reference time.Time) (value time.Time, ok bool, err error) {
	if ts == nil {
		return time.Time{}, false, ErrMissingTimestamp
	}
	value, ok = GuessDatetime(*ts, reference)
	return value, ok, nil
}
