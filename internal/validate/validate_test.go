package validate

import (
	"testing"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/geo"
)

func altitude(ft uint32) *uint32 { return &ft }

func positionPacket(from, to aprs.Callsign, via []aprs.Callsign, h, m, s int, lat, lon float64, alt uint32) aprs.ServerResponse {
	ts := aprs.HHMMSS(h, m, s)
	return aprs.ServerResponse{
		Kind: aprs.ResponsePacket,
		Packet: &aprs.AprsPacket{
			From: from,
			To:   to,
			Via:  via,
			Data: aprs.AprsData{
				Kind: aprs.DataPosition,
				Position: &aprs.AprsPosition{
					Timestamp: &ts,
					Latitude:  lat,
					Longitude: lon,
					Comment:   aprs.PositionComment{Altitude: altitude(alt)},
				},
			},
		},
	}
}

func TestProcessClearsSpeedBitsForPlausibleTrack(t *testing.T) {
	e := NewEngine(geo.NewService())

	reference := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e.Process(aprs.ServerResponse{
		Kind:          aprs.ResponseServerComment,
		ServerComment: &aprs.ServerComment{Timestamp: reference},
	}, reference)

	via := []aprs.Callsign{"qAS", "GLIDERN1"}
	first := positionPacket("FLRDDA1B2", "APRS", via, 12, 0, 0, 52.0, 13.0, 1000)
	e.Process(first, reference)

	second := positionPacket("FLRDDA1B2", "APRS", via, 12, 0, 1, 52.0001, 13.0, 1050)
	enr := e.Process(second, reference.Add(time.Second))

	if enr.Plausibility == nil {
		t.Fatal("Plausibility not set")
	}
	p := *enr.Plausibility
	if p&BitHorizontalSpeedHigh != 0 {
		t.Errorf("plausibility %#x has BitHorizontalSpeedHigh set, want clear", p)
	}
	if p&BitVerticalSpeedHigh != 0 {
		t.Errorf("plausibility %#x has BitVerticalSpeedHigh set, want clear", p)
	}
	if p&BitNoPriorRecord != 0 {
		t.Errorf("plausibility %#x has BitNoPriorRecord set, want clear (second beacon has a prior)", p)
	}
}

func TestProcessFirstSightingHasNoPriorRecord(t *testing.T) {
	e := NewEngine(geo.NewService())
	reference := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e.Process(aprs.ServerResponse{
		Kind:          aprs.ResponseServerComment,
		ServerComment: &aprs.ServerComment{Timestamp: reference},
	}, reference)

	via := []aprs.Callsign{"qAS", "GLIDERN1"}
	first := positionPacket("FLRDDA1B2", "APRS", via, 12, 0, 0, 52.0, 13.0, 1000)
	enr := e.Process(first, reference)

	p := *enr.Plausibility
	if p&BitNoPriorRecord == 0 {
		t.Errorf("plausibility %#x missing BitNoPriorRecord on first sighting", p)
	}
	if p&BitNeverSeenByOtherReceiver == 0 {
		t.Errorf("plausibility %#x missing BitNeverSeenByOtherReceiver on first sighting", p)
	}
}

func TestProcessUnknownReceiverSetsNoBearingBit(t *testing.T) {
	e := NewEngine(geo.NewService())
	reference := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e.Process(aprs.ServerResponse{
		Kind:          aprs.ResponseServerComment,
		ServerComment: &aprs.ServerComment{Timestamp: reference},
	}, reference)

	via := []aprs.Callsign{"qAS", "UNKNOWNRX"}
	pkt := positionPacket("FLRDDA1B2", "APRS", via, 12, 0, 0, 52.0, 13.0, 1000)
	enr := e.Process(pkt, reference)

	p := *enr.Plausibility
	if p&BitNoBearingOrDistance == 0 {
		t.Errorf("plausibility %#x missing BitNoBearingOrDistance for an unregistered receiver", p)
	}
}

func TestProcessServerCommentPassesThroughUnenriched(t *testing.T) {
	e := NewEngine(geo.NewService())
	now := time.Now()
	enr := e.Process(aprs.ServerResponse{
		Kind:          aprs.ResponseServerComment,
		ServerComment: &aprs.ServerComment{Timestamp: now},
	}, now)

	if enr.Plausibility != nil {
		t.Errorf("Plausibility = %v, want nil for a server comment", enr.Plausibility)
	}
}
