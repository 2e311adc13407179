/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	geo.go: the receiver registry and flat-projection bearing/distance
	service. Each Receiver caches a local equirectangular
	projection anchored at its own position the moment it is registered;
	bearing and distance for any later sighting are computed against that
	cached anchor rather than full great-circle math, which is the
	sub-50 km working-range approximation the source relies on.

	The per-latitude scale factors (kx, ky below) follow the WGS84
	ellipsoid correction used by the original cheap-ruler-style projection
	this is ported from — a plain R*cos(lat) sphere approximation is
	close but measurably off at aviation ranges, so the ellipsoid
	flattening term is kept.
*/

package geo

import (
	"math"
	"strings"
	"sync"

	"github.com/kellydunn/golang-geo"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
)

const (
	equatorialRadiusM = 6378137.0
	flattening        = 1.0 / 298.257223563
)

// Relation is the bearing/distance of a sighting relative to the receiver
// that heard it.
type Relation struct {
	Bearing  float64 // degrees, [0, 360)
	Distance float64 // meters
}

// Receiver is a registered ground station: its last known position plus the
// flat-projection scale factors anchored there.
type Receiver struct {
	Call      aprs.Callsign
	Point     *geo.Point
	kx, ky    float64
}

func newReceiver(call aprs.Callsign, lat, lon float64) *Receiver {
	r := &Receiver{Call: call, Point: geo.NewPoint(lat, lon)}
	r.kx, r.ky = scaleFactors(lat)
	return r
}

// scaleFactors returns the meters-per-degree multipliers for longitude and
// latitude at the given anchor latitude, correcting for WGS84 flattening.
func scaleFactors(latDeg float64) (kx, ky float64) {
	const e2 = flattening * (2 - flattening)
	rad := math.Pi / 180
	cosLat := math.Cos(latDeg * rad)
	w2 := 1 / (1 - e2*(1-cosLat*cosLat))
	w := math.Sqrt(w2)
	m := rad * equatorialRadiusM
	kx = m * w * cosLat
	ky = m * w * w2 * (1 - e2)
	return kx, ky
}

// relationTo computes the bearing/distance from (lat, lon) back to this
// receiver's anchor.
func (r *Receiver) relationTo(lat, lon float64) Relation {
	dx := (r.Point.Lng() - lon) * r.kx
	dy := (r.Point.Lat() - lat) * r.ky
	distance := math.Hypot(dx, dy)
	bearing := math.Atan2(dx, dy) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	return Relation{Bearing: bearing, Distance: distance}
}

// Service owns the receiver registry exclusively; no other component holds
// references into its map.
type Service struct {
	mu        sync.Mutex
	receivers map[aprs.Callsign]*Receiver
}

// NewService returns an empty registry.
func NewService() *Service {
	return &Service{receivers: make(map[aprs.Callsign]*Receiver)}
}

// GetRelation implements the C6 decision table:
//  1. a sender call starting with "RND" (anonymous) never yields a relation.
//  2. a packet whose destination is OGNSDR is a receiver's self-report:
//     register/update it and return nil.
//  3. otherwise, if the last via hop is a known receiver, compute the
//     relation of (lat, lon) against its anchor.
//  4. otherwise nil.
func (s *Service) GetRelation(from, to aprs.Callsign, via []aprs.Callsign, lat, lon float64) *Relation {
	if strings.HasPrefix(string(from), "RND") {
		return nil
	}

	var lastVia aprs.Callsign
	if len(via) > 0 {
		lastVia = via[len(via)-1]
	}

	if to == "OGNSDR" {
		s.registerOrUpdate(from, lat, lon)
		return nil
	}

	s.mu.Lock()
	receiver, ok := s.receivers[lastVia]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	rel := receiver.relationTo(lat, lon)
	return &rel
}

func (s *Service) registerOrUpdate(call aprs.Callsign, lat, lon float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.receivers[call]
	if ok && existing.Point.Lat() == lat && existing.Point.Lng() == lon {
		return
	}
	s.receivers[call] = newReceiver(call, lat, lon)
}

// Lookup returns the registered receiver for call, if any. Exposed for
// warm-up and diagnostics; the validator never mutates the result.
func (s *Service) Lookup(call aprs.Callsign) (*Receiver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receivers[call]
	return r, ok
}

// NormalizedSignalQuality applies the standard free-space-path-loss
// correction, expressing quality as if observed at a 10 km reference
// range. Defined only for distance > 0.
func NormalizedSignalQuality(distanceM, signalQualityDB float64) (float64, bool) {
	if distanceM <= 0 {
		return 0, false
	}
	return signalQualityDB + 20*math.Log10(distanceM/10000), true
}

// FlatDistanceMeters computes the straight-line ground distance between two
// arbitrary fixes using the same flat-projection approximation as Receiver,
// anchored at the first point. Used by the validator for speed checks
// between consecutive beacons of the same sender, where no registered
// Receiver anchor applies.
func FlatDistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	kx, ky := scaleFactors(lat1)
	dx := (lon2 - lon1) * kx
	dy := (lat2 - lat1) * ky
	return math.Hypot(dx, dy)
}
