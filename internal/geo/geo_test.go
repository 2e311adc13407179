package geo

import (
	"math"
	"testing"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

func registerAnchor(s *Service) {
	s.GetRelation("GLIDERN1", "OGNSDR", []aprs.Callsign{"GLIDERN1"}, 52.0, 13.0)
}

func TestGetRelationScenarios(t *testing.T) {
	cases := []struct {
		name         string
		lat, lon     float64
		wantBearing  float64
		wantDistance float64
	}{
		{"south of anchor", 51.0, 13.0, 0.0, 111267.35},
		{"west of anchor", 52.0, 12.0, 90.0, 68678.02},
		{"north of anchor", 53.0, 13.0, 180.0, 111267.35},
		{"east of anchor", 52.0, 14.0, 270.0, 68678.02},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewService()
			registerAnchor(s)

			rel := s.GetRelation("FLRDDA1B2", "APRS", []aprs.Callsign{"qAS", "GLIDERN1"}, tc.lat, tc.lon)
			if rel == nil {
				t.Fatal("GetRelation returned nil, want a Relation")
			}
			if math.Abs(rel.Bearing-tc.wantBearing) > 1e-6 {
				t.Errorf("Bearing = %v, want %v", rel.Bearing, tc.wantBearing)
			}
			if math.Abs(rel.Distance-tc.wantDistance) > 0.01 {
				t.Errorf("Distance = %v, want %v", rel.Distance, tc.wantDistance)
			}
		})
	}
}

func TestGetRelationAnonymousSenderIgnored(t *testing.T) {
	s := NewService()
	registerAnchor(s)

	rel := s.GetRelation("RND1234", "APRS", []aprs.Callsign{"qAS", "GLIDERN1"}, 51.0, 13.0)
	if rel != nil {
		t.Errorf("GetRelation = %+v, want nil for an RND sender", rel)
	}
}

func TestGetRelationUnknownReceiver(t *testing.T) {
	s := NewService()

	rel := s.GetRelation("FLRDDA1B2", "APRS", []aprs.Callsign{"qAS", "UNKNOWNRX"}, 51.0, 13.0)
	if rel != nil {
		t.Errorf("GetRelation = %+v, want nil for an unregistered receiver", rel)
	}
}

func TestGetRelationSelfReportRegistersNoRelation(t *testing.T) {
	s := NewService()
	rel := s.GetRelation("GLIDERN1", "OGNSDR", []aprs.Callsign{"GLIDERN1"}, 52.0, 13.0)
	if rel != nil {
		t.Errorf("GetRelation = %+v, want nil for a receiver self-report", rel)
	}
	if _, ok := s.Lookup("GLIDERN1"); !ok {
		t.Error("self-report did not register a receiver")
	}
}

func TestNormalizedSignalQuality(t *testing.T) {
	got, ok := NormalizedSignalQuality(20000, 10)
	if !ok {
		t.Fatal("NormalizedSignalQuality returned ok=false for distance > 0")
	}
	want := 10 + 20*math.Log10(20000.0/10000)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("NormalizedSignalQuality = %v, want %v", got, want)
	}

	if _, ok := NormalizedSignalQuality(0, 10); ok {
		t.Error("NormalizedSignalQuality returned ok=true for distance == 0")
	}
}
