/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	position_comment.go: the free-form position-comment grammar.
	Recognition is shape-based rather than index-based: every rule below
	matches purely on a token's own characters, so a comment parses to the
	same result under any token reordering. Each field is set at most once
	(first match wins), and anything left over is preserved verbatim in
	Unparsed so unrecognized future extensions round-trip losslessly.
*/

package aprs

import (
	"strconv"
	"strings"
)

// ParsePositionComment parses the free-form tail of a position report.
func ParsePositionComment(s string) PositionComment {
	var c PositionComment
	var unparsed []string

	for _, tok := range strings.Fields(s) {
		switch {
		case c.Course == nil && matchCourseSpeedAltitude(tok, &c):
		case c.Altitude == nil && matchAltitudeOnly(tok, &c):
		case c.AdditionalPrecision == nil && matchPrecision(tok, &c):
		case c.ID == nil && matchID(tok, &c):
		case matchUnitField(tok, &c):
		case c.GPSQuality == nil && matchGPSQuality(tok, &c):
		case c.FlightLevel == nil && matchFlightLevel(tok, &c):
		case c.SoftwareVersion == nil && matchSoftwareVersion(tok, &c):
		case c.HardwareVersion == nil && matchHardwareVersion(tok, &c):
		case c.OriginalAddress == nil && matchOriginalAddress(tok, &c):
		case matchWeatherField(tok, &c):
		default:
			unparsed = append(unparsed, tok)
		}
	}

	if len(unparsed) > 0 {
		c.Unparsed = strings.Join(unparsed, " ")
	}
	return c
}

func isDecimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// rule 1: "CCC/SSS/A=AAAAAA" — course, speed and altitude in one token.
func matchCourseSpeedAltitude(tok string, c *PositionComment) bool {
	if len(tok) != 16 || tok[3] != '/' || tok[7] != '/' || tok[8:10] != "A=" {
		return false
	}
	courseStr, speedStr, altStr := tok[0:3], tok[4:7], tok[10:16]
	if !isDecimalDigits(courseStr) || !isDecimalDigits(speedStr) || !isDecimalDigits(altStr) {
		return false
	}
	course, err := strconv.ParseUint(courseStr, 10, 16)
	if err != nil || course > 360 {
		return false
	}
	speed, err := strconv.ParseUint(speedStr, 10, 16)
	if err != nil {
		return false
	}
	alt, err := strconv.ParseUint(altStr, 10, 32)
	if err != nil {
		return false
	}
	cu := uint16(course)
	su := uint16(speed)
	au := uint32(alt)
	c.Course = &cu
	c.Speed = &su
	if c.Altitude == nil {
		c.Altitude = &au
	}
	return true
}

// rule 2: "/A=AAAAAA" — altitude alone.
func matchAltitudeOnly(tok string, c *PositionComment) bool {
	if len(tok) != 9 || tok[0] != '/' || tok[1] != 'A' || tok[2] != '=' {
		return false
	}
	altStr := tok[3:9]
	if !isDecimalDigits(altStr) {
		return false
	}
	alt, err := strconv.ParseUint(altStr, 10, 32)
	if err != nil {
		return false
	}
	au := uint32(alt)
	c.Altitude = &au
	return true
}

// rule 3: "!Wab!" — sub-minute additional precision digits.
func matchPrecision(tok string, c *PositionComment) bool {
	if len(tok) != 5 || tok[0] != '!' || tok[1] != 'W' || tok[4] != '!' {
		return false
	}
	a, b := tok[2], tok[3]
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return false
	}
	c.AdditionalPrecision = &AdditionalPrecision{
		Lat: uint8(a - '0'),
		Lon: uint8(b - '0'),
	}
	return true
}

// rule 4: "id" + 2-hex flag byte (STttttaa) + 6-hex address.
func matchID(tok string, c *PositionComment) bool {
	if len(tok) != 10 || !strings.HasPrefix(tok, "id") {
		return false
	}
	flagStr, addrStr := tok[2:4], tok[4:10]
	if !isHexDigits(flagStr) || !isHexDigits(addrStr) {
		return false
	}
	flag, err := strconv.ParseUint(flagStr, 16, 8)
	if err != nil {
		return false
	}
	addr, err := strconv.ParseUint(addrStr, 16, 32)
	if err != nil {
		return false
	}
	c.ID = &ID{
		Address:      uint32(addr),
		AddressType:  uint8(flag & 0x03),
		AircraftType: uint8((flag >> 2) & 0x0F),
		IsStealth:    flag&0x80 != 0,
		IsNoTrack:    flag&0x40 != 0,
	}
	return true
}

// rule 5: token ending in a recognized unit. The suffix after the number
// must equal a table entry exactly, so overlapping units such as "dBm" and
// "dB" cannot be confused and the order of the table does not matter.
var unitFields = []struct {
	unit string
	set  func(c *PositionComment, value float64) bool
}{
	{"fpm", func(c *PositionComment, v float64) bool {
		if c.ClimbRate != nil {
			return false
		}
		cv := int16(v)
		c.ClimbRate = &cv
		return true
	}},
	{"rot", func(c *PositionComment, v float64) bool {
		if c.TurnRate != nil {
			return false
		}
		c.TurnRate = &v
		return true
	}},
	{"dBm", func(c *PositionComment, v float64) bool {
		if c.SignalPower != nil {
			return false
		}
		c.SignalPower = &v
		return true
	}},
	{"dB", func(c *PositionComment, v float64) bool {
		if c.SignalQuality != nil {
			return false
		}
		c.SignalQuality = &v
		return true
	}},
	{"kHz", func(c *PositionComment, v float64) bool {
		if c.FrequencyOffset != nil {
			return false
		}
		c.FrequencyOffset = &v
		return true
	}},
	{"e", func(c *PositionComment, v float64) bool {
		if c.Error != nil {
			return false
		}
		if v < 0 || v > 255 {
			return false
		}
		ev := uint8(v)
		c.Error = &ev
		return true
	}},
}

func matchUnitField(tok string, c *PositionComment) bool {
	valueStr, unit, ok := SplitValueUnit(tok)
	if !ok {
		return false
	}
	for _, f := range unitFields {
		if unit != f.unit {
			continue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return false
		}
		return f.set(c, value)
	}
	return false
}

// rule 6: "gps" + "AxB" where A, B are decimal integers.
func matchGPSQuality(tok string, c *PositionComment) bool {
	if len(tok) < 6 || !strings.HasPrefix(tok, "gps") {
		return false
	}
	rest := tok[3:]
	i := strings.IndexByte(rest, 'x')
	if i < 0 {
		return false
	}
	a, b := rest[:i], rest[i+1:]
	if !isDecimalDigits(a) || !isDecimalDigits(b) {
		return false
	}
	c.GPSQuality = &rest
	return true
}

// rule 7: "FL" + decimal.
func matchFlightLevel(tok string, c *PositionComment) bool {
	if len(tok) < 3 || !strings.HasPrefix(tok, "FL") {
		return false
	}
	value, err := strconv.ParseFloat(tok[2:], 64)
	if err != nil {
		return false
	}
	c.FlightLevel = &value
	return true
}

// rule 8: "s" + decimal.
func matchSoftwareVersion(tok string, c *PositionComment) bool {
	if len(tok) < 2 || tok[0] != 's' {
		return false
	}
	value, err := strconv.ParseFloat(tok[1:], 64)
	if err != nil {
		return false
	}
	c.SoftwareVersion = &value
	return true
}

// rule 9: "h" + 2-hex.
func matchHardwareVersion(tok string, c *PositionComment) bool {
	if len(tok) != 3 || tok[0] != 'h' {
		return false
	}
	value, err := strconv.ParseUint(tok[1:], 16, 8)
	if err != nil {
		return false
	}
	hv := uint8(value)
	c.HardwareVersion = &hv
	return true
}

// rule 10: "r" + 6-hex.
func matchOriginalAddress(tok string, c *PositionComment) bool {
	if len(tok) != 7 || tok[0] != 'r' {
		return false
	}
	value, err := strconv.ParseUint(tok[1:], 16, 32)
	if err != nil {
		return false
	}
	av := uint32(value)
	c.OriginalAddress = &av
	return true
}

// matchWeatherField recognizes the standard APRS weather-report tokens
// supplemented from original_source/ (see SPEC_FULL.md). These are tried
// only after every OGN-specific rule above has failed, so a humidity token
// "hNN" is always taken by the hardware_version rule (two decimal digits
// are also valid hex) and Humidity is never set from it. Wind direction
// and speed are read together from one "DDD/SSS" token.
func matchWeatherField(tok string, c *PositionComment) bool {
	switch {
	case c.WindDirection == nil && len(tok) == 7 && tok[3] == '/':
		dirStr, spdStr := tok[0:3], tok[4:7]
		if !isDecimalDigits(dirStr) || !isDecimalDigits(spdStr) {
			return false
		}
		dir, err1 := strconv.ParseUint(dirStr, 10, 16)
		spd, err2 := strconv.ParseUint(spdStr, 10, 16)
		if err1 != nil || err2 != nil {
			return false
		}
		dv, sv := uint16(dir), uint16(spd)
		c.WindDirection = &dv
		c.WindSpeed = &sv
		return true
	case c.Gust == nil && len(tok) == 4 && tok[0] == 'g' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 16)
		if err != nil {
			return false
		}
		vv := uint16(v)
		c.Gust = &vv
		return true
	case c.Temperature == nil && tok[0] == 't':
		v, err := strconv.ParseInt(tok[1:], 10, 16)
		if err != nil {
			return false
		}
		vv := int16(v)
		c.Temperature = &vv
		return true
	case c.Rainfall1h == nil && len(tok) == 4 && tok[0] == 'r' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 16)
		if err != nil {
			return false
		}
		vv := uint16(v)
		c.Rainfall1h = &vv
		return true
	case c.Rainfall24h == nil && len(tok) == 4 && tok[0] == 'p' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 16)
		if err != nil {
			return false
		}
		vv := uint16(v)
		c.Rainfall24h = &vv
		return true
	case c.RainfallMidnight == nil && len(tok) == 4 && tok[0] == 'P' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 16)
		if err != nil {
			return false
		}
		vv := uint16(v)
		c.RainfallMidnight = &vv
		return true
	case c.Humidity == nil && len(tok) == 3 && tok[0] == 'h' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 8)
		if err != nil {
			return false
		}
		vv := uint8(v)
		c.Humidity = &vv
		return true
	case c.BarometricPressure == nil && len(tok) == 6 && tok[0] == 'b' && isDecimalDigits(tok[1:]):
		v, err := strconv.ParseUint(tok[1:], 10, 32)
		if err != nil {
			return false
		}
		vv := uint32(v)
		c.BarometricPressure = &vv
		return true
	}
	return false
}
