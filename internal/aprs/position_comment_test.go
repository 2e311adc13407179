package aprs

import (
	"reflect"
	"testing"
)

// summary flattens a PositionComment into comparable values so tests don't
// have to juggle pointer identity.
type summary struct {
	Course, Speed                    uint16
	Altitude                         uint32
	PrecLat, PrecLon                 uint8
	IDAddr                           uint32
	IDAddrType, IDAircraftType       uint8
	IDStealth, IDNoTrack             bool
	ClimbRate                        int16
	TurnRate, SignalQuality          float64
	Error                            uint8
	FrequencyOffset                  float64
	GPSQuality                       string
	SoftwareVersion                  float64
	HardwareVersion                  uint8
	OriginalAddress                  uint32
	Unparsed                         string
}

func summarize(c PositionComment) summary {
	var s summary
	if c.Course != nil {
		s.Course = *c.Course
	}
	if c.Speed != nil {
		s.Speed = *c.Speed
	}
	if c.Altitude != nil {
		s.Altitude = *c.Altitude
	}
	if c.AdditionalPrecision != nil {
		s.PrecLat = c.AdditionalPrecision.Lat
		s.PrecLon = c.AdditionalPrecision.Lon
	}
	if c.ID != nil {
		s.IDAddr = c.ID.Address
		s.IDAddrType = c.ID.AddressType
		s.IDAircraftType = c.ID.AircraftType
		s.IDStealth = c.ID.IsStealth
		s.IDNoTrack = c.ID.IsNoTrack
	}
	if c.ClimbRate != nil {
		s.ClimbRate = *c.ClimbRate
	}
	if c.TurnRate != nil {
		s.TurnRate = *c.TurnRate
	}
	if c.SignalQuality != nil {
		s.SignalQuality = *c.SignalQuality
	}
	if c.Error != nil {
		s.Error = *c.Error
	}
	if c.FrequencyOffset != nil {
		s.FrequencyOffset = *c.FrequencyOffset
	}
	if c.GPSQuality != nil {
		s.GPSQuality = *c.GPSQuality
	}
	if c.SoftwareVersion != nil {
		s.SoftwareVersion = *c.SoftwareVersion
	}
	if c.HardwareVersion != nil {
		s.HardwareVersion = *c.HardwareVersion
	}
	if c.OriginalAddress != nil {
		s.OriginalAddress = *c.OriginalAddress
	}
	s.Unparsed = c.Unparsed
	return s
}

func TestParsePositionComment(t *testing.T) {
	want := summary{
		Course: 255, Speed: 45, Altitude: 3399,
		PrecLat: 0, PrecLon: 3,
		IDAddr: 0xDDFAA3, IDAddrType: 2, IDAircraftType: 1,
		ClimbRate: -613, TurnRate: -3.9, SignalQuality: 22.5,
		Error: 7, FrequencyOffset: -7.0,
		GPSQuality: "3x7", SoftwareVersion: 7.07, HardwareVersion: 0x41,
		OriginalAddress: 0xD002F8,
	}

	const input = "255/045/A=003399 !W03! id06DDFAA3 -613fpm -3.9rot 22.5dB 7e -7.0kHz gps3x7 s7.07 h41 rD002F8"
	got := summarize(ParsePositionComment(input))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePositionComment(scenario 1) = %+v, want %+v", got, want)
	}

	const reordered = "gps3x7 h41 -7.0kHz id06DDFAA3 rD002F8 22.5dB !W03! s7.07 -3.9rot 255/045/A=003399 7e -613fpm"
	gotReordered := summarize(ParsePositionComment(reordered))
	if !reflect.DeepEqual(gotReordered, want) {
		t.Errorf("ParsePositionComment(scenario 2, reordered) = %+v, want %+v", gotReordered, want)
	}
}

func TestParsePositionCommentAmbiguousGPS(t *testing.T) {
	c := ParsePositionComment("gps2xFLRD0")
	if c.GPSQuality != nil {
		t.Errorf("GPSQuality = %q, want unset", *c.GPSQuality)
	}
	if c.Unparsed != "gps2xFLRD0" {
		t.Errorf("Unparsed = %q, want %q", c.Unparsed, "gps2xFLRD0")
	}
}

func TestParsePositionCommentWeatherFields(t *testing.T) {
	// Weather subfields are matched as independent whitespace-delimited
	// tokens (see matchWeatherField), not the glued single-token format of
	// a real APRS weather report.
	c := ParsePositionComment("200/012 g015 t-05 r000 p001 P003 b10212")
	if c.WindDirection == nil || *c.WindDirection != 200 {
		t.Errorf("WindDirection = %v, want 200", c.WindDirection)
	}
	if c.WindSpeed == nil || *c.WindSpeed != 12 {
		t.Errorf("WindSpeed = %v, want 12", c.WindSpeed)
	}
	if c.Gust == nil || *c.Gust != 15 {
		t.Errorf("Gust = %v, want 15", c.Gust)
	}
	if c.Temperature == nil || *c.Temperature != -5 {
		t.Errorf("Temperature = %v, want -5", c.Temperature)
	}
	if c.Rainfall24h == nil || *c.Rainfall24h != 1 {
		t.Errorf("Rainfall24h = %v, want 1", c.Rainfall24h)
	}
	if c.RainfallMidnight == nil || *c.RainfallMidnight != 3 {
		t.Errorf("RainfallMidnight = %v, want 3", c.RainfallMidnight)
	}
	if c.BarometricPressure == nil || *c.BarometricPressure != 10212 {
		t.Errorf("BarometricPressure = %v, want 10212", c.BarometricPressure)
	}
	if c.Unparsed != "" {
		t.Errorf("Unparsed = %q, want empty", c.Unparsed)
	}
}
