/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	validate.go: the validation/enrichment engine. Owns the
	per-(sender,receiver) beacon history and the geometry service
	exclusively; no reference into its maps escapes a single Process call.
	Parse errors and server comments pass straight through — only Position
	packets are enriched with a reconstructed timestamp, bearing/distance,
	normalized signal quality and a 12-bit plausibility mask.
*/

package validate

import (
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/geo"
	"github.com/ogn-network/ogn-ingest/internal/timeutil"
)

// Plausibility bit values, ground-truthed against the original validation
// actor. Bit positions 1/2 and 3/4 are mutually exclusive pairs (the second
// of each pair can only be set when the first condition that would gate it
// does NOT hold).
const (
	BitNoReceiverTimestamp     = 1 << 0
	BitNoBearingOrDistance     = 1 << 1
	BitDistanceImplausible     = 1 << 2
	BitNoNormalizedQuality     = 1 << 3
	BitNormalizedQualityHigh   = 1 << 4
	BitNoPriorRecord           = 1 << 5
	BitPriorRecordStale        = 1 << 6
	BitHorizontalSpeedHigh     = 1 << 7
	BitMissingAltitude         = 1 << 8
	BitVerticalSpeedHigh       = 1 << 9
	BitNeverSeenByOtherReceiver = 1 << 10
	BitOtherReceiversStale     = 1 << 11

	distanceImplausibleM      = 1_000_000.0
	normalizedQualityHighDB   = 50.0
	priorRecordStaleSeconds   = 300.0
	horizontalSpeedLimitMps   = 300.0
	verticalSpeedLimitFtps    = 300.0
)

// Enrichment carries the fields C7 adds to a ServerResponseContainer. Every
// field is optional: degraded enrichment (unknown geometry, ambiguous
// timestamp) is never an error, only a less-complete record.
type Enrichment struct {
	ArrivalTS               time.Time
	ReceiverTS              *time.Time
	Bearing                 *float64
	Distance                *float64
	NormalizedSignalQuality *float64
	Plausibility            *uint16
}

type historyEntry struct {
	ts       time.Time
	position *aprs.AprsPosition
}

// Engine holds per-(sender,receiver) beacon history plus the geometry
// service. Zero value is not usable; construct with NewEngine.
type Engine struct {
	geo                 *geo.Service
	historyBySender     map[aprs.Callsign]map[aprs.Callsign]historyEntry
	lastServerTimestamp *time.Time
}

// NewEngine returns a validation engine backed by g. g is typically shared
// with nothing else; the engine is its only owner for the duration of the
// process.
func NewEngine(g *geo.Service) *Engine {
	return &Engine{
		geo:             g,
		historyBySender: make(map[aprs.Callsign]map[aprs.Callsign]historyEntry),
	}
}

// Process enriches a single ServerResponse observed at arrival time. It is
// the only mutator of the engine's internal state.
func (e *Engine) Process(resp aprs.ServerResponse, arrival time.Time) Enrichment {
	switch resp.Kind {
	case aprs.ResponseServerComment:
		ts := resp.ServerComment.Timestamp
		e.lastServerTimestamp = &ts
		return Enrichment{ArrivalTS: arrival}

	case aprs.ResponsePacket:
		packet := resp.Packet
		if packet.Data.Kind != aprs.DataPosition {
			return Enrichment{ArrivalTS: arrival}
		}
		return e.processPosition(packet, arrival)

	default: // ResponseParserError, ResponseComment
		return Enrichment{ArrivalTS: arrival}
	}
}

func (e *Engine) referenceTime() time.Time {
	if e.lastServerTimestamp != nil {
		return *e.lastServerTimestamp
	}
	return time.Now().UTC()
}

func (e *Engine) processPosition(packet *aprs.AprsPacket, arrival time.Time) Enrichment {
	position := packet.Data.Position
	sender := packet.From
	receiver := packet.Receiver()

	enrichment := Enrichment{ArrivalTS: arrival}

	receiverTS, ok, _ := timeutil.Reconstruct(position.Timestamp, e.referenceTime())
	if ok {
		enrichment.ReceiverTS = &receiverTS
	}

	relation := e.geo.GetRelation(sender, packet.To, packet.Via, position.Latitude, position.Longitude)
	if relation != nil {
		bearing, distance := relation.Bearing, relation.Distance
		enrichment.Bearing = &bearing
		enrichment.Distance = &distance

		if position.Comment.SignalQuality != nil && *position.Comment.SignalQuality > 0 {
			if nq, ok := geo.NormalizedSignalQuality(distance, *position.Comment.SignalQuality); ok {
				enrichment.NormalizedSignalQuality = &nq
			}
		}
	}

	plausibility := e.computePlausibility(sender, receiver, enrichment, position)
	enrichment.Plausibility = &plausibility

	if enrichment.ReceiverTS != nil {
		e.recordHistory(sender, receiver, *enrichment.ReceiverTS, position)
	}

	return enrichment
}

func (e *Engine) recordHistory(sender, receiver aprs.Callsign, ts time.Time, position *aprs.AprsPosition) {
	byReceiver, ok := e.historyBySender[sender]
	if !ok {
		byReceiver = make(map[aprs.Callsign]historyEntry)
		e.historyBySender[sender] = byReceiver
	}
	byReceiver[receiver] = historyEntry{ts: ts, position: position}
}

func (e *Engine) computePlausibility(sender, receiver aprs.Callsign, enr Enrichment, position *aprs.AprsPosition) uint16 {
	var p uint16

	if enr.ReceiverTS == nil {
		return p | BitNoReceiverTimestamp
	}

	if enr.Bearing != nil && enr.Distance != nil {
		if *enr.Distance > distanceImplausibleM {
			p |= BitDistanceImplausible
		}
	} else {
		p |= BitNoBearingOrDistance
	}

	if enr.NormalizedSignalQuality != nil {
		if *enr.NormalizedSignalQuality > normalizedQualityHighDB {
			p |= BitNormalizedQualityHigh
		}
	} else {
		p |= BitNoNormalizedQuality
	}

	byReceiver := e.historyBySender[sender] // nil map reads as empty, by design (see DESIGN.md)
	prior, hasPrior := byReceiver[receiver]

	if !hasPrior {
		p |= BitNoPriorRecord
	} else {
		deltaSeconds := enr.ReceiverTS.Sub(prior.ts).Seconds()
		if deltaSeconds > priorRecordStaleSeconds {
			p |= BitPriorRecordStale
		} else {
			horizontalSpeed := horizontalDistanceBetween(prior.position, position) / deltaSeconds
			if horizontalSpeed > horizontalSpeedLimitMps {
				p |= BitHorizontalSpeedHigh
			}

			if prior.position.Comment.Altitude == nil || position.Comment.Altitude == nil {
				p |= BitMissingAltitude
			} else {
				verticalSpeed := float64(int64(*prior.position.Comment.Altitude)-int64(*position.Comment.Altitude)) / deltaSeconds
				if verticalSpeed > verticalSpeedLimitFtps {
					p |= BitVerticalSpeedHigh
				}
			}
		}
	}

	otherReceiverCount := 0
	allOtherReceiversStale := true
	for otherReceiver, entry := range byReceiver {
		if otherReceiver == receiver {
			continue
		}
		otherReceiverCount++
		if enr.ReceiverTS.Sub(entry.ts).Seconds() <= priorRecordStaleSeconds {
			allOtherReceiversStale = false
		}
	}
	if otherReceiverCount == 0 {
		p |= BitNeverSeenByOtherReceiver
	}
	if allOtherReceiversStale {
		p |= BitOtherReceiversStale
	}

	return p
}

// horizontalDistanceBetween computes the straight-line ground distance
// between two fixes using the same flat-earth approximation as the
// geometry service, anchored at the earlier fix.
func horizontalDistanceBetween(a, b *aprs.AprsPosition) float64 {
	return geo.FlatDistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}
