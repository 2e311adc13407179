/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	record.go: translates a container into the counter increments defined
	in metrics.go. Kept separate from the pipeline package so neither
	package needs to import the other's internals beyond this file's use
	of container and validate.
*/

package metrics

import (
	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

func variantLabel(kind container.Kind) string {
	switch kind {
	case container.KindPosition:
		return "position"
	case container.KindStatus:
		return "status"
	case container.KindServerComment:
		return "server_comment"
	case container.KindParserError:
		return "parser_error"
	default:
		return "unknown"
	}
}

var plausibilityBitNames = []struct {
	bit  uint16
	name string
}{
	{validate.BitNoReceiverTimestamp, "no_receiver_timestamp"},
	{validate.BitNoBearingOrDistance, "no_bearing_or_distance"},
	{validate.BitDistanceImplausible, "distance_implausible"},
	{validate.BitNoNormalizedQuality, "no_normalized_quality"},
	{validate.BitNormalizedQualityHigh, "normalized_quality_high"},
	{validate.BitNoPriorRecord, "no_prior_record"},
	{validate.BitPriorRecordStale, "prior_record_stale"},
	{validate.BitHorizontalSpeedHigh, "horizontal_speed_high"},
	{validate.BitMissingAltitude, "missing_altitude"},
	{validate.BitVerticalSpeedHigh, "vertical_speed_high"},
	{validate.BitNeverSeenByOtherReceiver, "never_seen_by_other_receiver"},
	{validate.BitOtherReceiversStale, "other_receivers_stale"},
}

// RecordContainer increments the per-variant and (for positions) the
// plausibility-bit counters for c.
func RecordContainer(c container.Container) {
	PacketsByVariant.WithLabelValues(variantLabel(c.Kind)).Inc()

	if c.Kind == container.KindParserError {
		ParseFailures.Inc()
	}

	if c.Kind != container.KindPosition || c.Position.Plausibility == nil {
		return
	}
	mask := *c.Position.Plausibility
	for _, b := range plausibilityBitNames {
		if mask&b.bit != 0 {
			PlausibilityBits.WithLabelValues(b.name).Inc()
		}
	}
}
