/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	packet.go: the top-level line parser. Combines the header
	(from/to/via), the data-kind dispatch (position/status/message), and the
	comment grammars into a single ServerResponse per line.
*/

package aprs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLine parses a single line of APRS-IS traffic into a ServerResponse.
// Lines beginning with "#" are server comments; everything else is parsed
// as an APRS packet, falling back to a ParserError on any grammar failure.
func ParseLine(line string) ServerResponse {
	if strings.HasPrefix(line, "#") {
		if sc, ok := parseServerComment(line); ok {
			return ServerResponse{Kind: ResponseServerComment, Raw: line, ServerComment: &sc}
		}
		return ServerResponse{Kind: ResponseParserError, Raw: line, ParserError: &ParserError{
			Message: "malformed server comment",
			Line:    line,
		}}
	}

	packet, err := parsePacket(line)
	if err != nil {
		return ServerResponse{Kind: ResponseParserError, Raw: line, ParserError: &ParserError{
			Message: err.Error(),
			Line:    line,
		}}
	}
	return ServerResponse{Kind: ResponsePacket, Raw: line, Packet: packet}
}

// parseServerComment extracts the aprsc-style banner, e.g.
// "# aprsc 2.1.19-g730c5c1 26 Jul 2024 12:00:00 GMT GLIDERN1 1.2.3.4:14580".
func parseServerComment(line string) (ServerComment, bool) {
	fields := strings.Fields(strings.TrimPrefix(line, "#"))
	if len(fields) < 8 {
		return ServerComment{}, false
	}
	// fields: [software version day month year time GMT server ip:port]
	software, version := fields[0], fields[1]
	dateStr := strings.Join(fields[2:6], " ")
	ts, err := time.Parse("2 Jan 2006 15:04:05", dateStr)
	if err != nil {
		return ServerComment{}, false
	}
	server := fields[7]
	hostPort := ""
	if len(fields) > 8 {
		hostPort = fields[8]
	}
	ip, port, _ := strings.Cut(hostPort, ":")
	return ServerComment{
		Version:   software + " " + version,
		Timestamp: ts.UTC(),
		Server:    server,
		IPAddress: ip,
		Port:      port,
	}, true
}

func parsePacket(line string) (*AprsPacket, error) {
	header, data, ok := strings.Cut(line, ":")
	if !ok || data == "" {
		return nil, fmt.Errorf("missing header/data separator")
	}

	from, rest, ok := strings.Cut(header, ">")
	if !ok || from == "" {
		return nil, fmt.Errorf("missing source callsign")
	}

	parts := strings.Split(rest, ",")
	if len(parts) < 2 || parts[0] == "" {
		return nil, fmt.Errorf("missing destination or via path")
	}
	to := Callsign(parts[0])
	via := make([]Callsign, 0, len(parts)-1)
	for _, v := range parts[1:] {
		if v == "" {
			return nil, fmt.Errorf("empty via hop")
		}
		via = append(via, Callsign(v))
	}

	aprsData, err := parseData(data)
	if err != nil {
		return nil, err
	}

	return &AprsPacket{
		From: Callsign(from),
		To:   to,
		Via:  via,
		Data: aprsData,
	}, nil
}

func parseData(data string) (AprsData, error) {
	if data == "" {
		return AprsData{}, fmt.Errorf("empty data payload")
	}
	switch data[0] {
	case '!', '=', '/', '@':
		pos, err := parsePosition(data)
		if err != nil {
			return AprsData{}, err
		}
		return AprsData{Kind: DataPosition, Position: pos}, nil
	case '>':
		status, err := parseStatus(data)
		if err != nil {
			return AprsData{}, err
		}
		return AprsData{Kind: DataStatus, Status: status}, nil
	case ':':
		return AprsData{Kind: DataMessage, Raw: data}, nil
	default:
		return AprsData{Kind: DataUnknown, Raw: data}, nil
	}
}

// parseTimestamp reads a fixed 7-character APRS timestamp field:
// "DDHHMMz"/"DDHHMM/" (day-of-month) or "HHMMSSh" (time-of-day).
func parseTimestamp(s string) (Timestamp, bool) {
	if len(s) != 7 {
		return Timestamp{}, false
	}
	digits, kind := s[:6], s[6]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Timestamp{}, false
		}
	}
	a, _ := strconv.Atoi(digits[0:2])
	b, _ := strconv.Atoi(digits[2:4])
	c, _ := strconv.Atoi(digits[4:6])
	switch kind {
	case 'h':
		return HHMMSS(a, b, c), true
	case 'z', '/':
		return DDHHMM(a, b, c), true
	default:
		return Timestamp{}, false
	}
}

// parseLatLon reads the fixed-width "DDMM.MMN" / "DDDMM.MME" coordinate
// pair and the symbol table/code bracketing it.
func parseLatLon(s string) (lat, lon float64, symTable, symCode rune, rest string, ok bool) {
	if len(s) < 19 {
		return 0, 0, 0, 0, "", false
	}
	latField := s[0:8]
	symTableByte := s[8]
	lonField := s[9:18]
	symCodeByte := s[18]

	lat, ok = parseLat(latField)
	if !ok {
		return 0, 0, 0, 0, "", false
	}
	lon, ok = parseLon(lonField)
	if !ok {
		return 0, 0, 0, 0, "", false
	}
	return lat, lon, rune(symTableByte), rune(symCodeByte), s[19:], true
}

func parseLat(s string) (float64, bool) {
	if len(s) != 8 || s[4] != '.' {
		return 0, false
	}
	hemi := s[7]
	if hemi != 'N' && hemi != 'S' {
		return 0, false
	}
	deg, err := strconv.Atoi(s[0:2])
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(s[2:4]+"."+s[5:7], 64)
	if err != nil {
		return 0, false
	}
	value := float64(deg) + min/60
	if hemi == 'S' {
		value = -value
	}
	return value, true
}

func parseLon(s string) (float64, bool) {
	if len(s) != 9 || s[5] != '.' {
		return 0, false
	}
	hemi := s[8]
	if hemi != 'E' && hemi != 'W' {
		return 0, false
	}
	deg, err := strconv.Atoi(s[0:3])
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(s[3:5]+"."+s[6:8], 64)
	if err != nil {
		return 0, false
	}
	value := float64(deg) + min/60
	if hemi == 'W' {
		value = -value
	}
	return value, true
}

func parsePosition(data string) (*AprsPosition, error) {
	messaging := data[0] == '=' || data[0] == '@'
	hasTimestamp := data[0] == '/' || data[0] == '@'
	body := data[1:]

	var ts *Timestamp
	if hasTimestamp {
		if len(body) < 7 {
			return nil, fmt.Errorf("position: truncated timestamp")
		}
		t, ok := parseTimestamp(body[0:7])
		if !ok {
			return nil, fmt.Errorf("position: malformed timestamp %q", body[0:7])
		}
		ts = &t
		body = body[7:]
	}

	lat, lon, symTable, symCode, commentStr, ok := parseLatLon(body)
	if !ok {
		return nil, fmt.Errorf("position: malformed lat/lon field")
	}

	comment := ParsePositionComment(commentStr)
	if comment.AdditionalPrecision != nil {
		lat += float64(comment.AdditionalPrecision.Lat) / 1000 / 60
		lon += float64(comment.AdditionalPrecision.Lon) / 1000 / 60
	}

	return &AprsPosition{
		Timestamp:          ts,
		MessagingSupported: messaging,
		Latitude:           lat,
		Longitude:          lon,
		SymbolTable:        symTable,
		SymbolCode:         symCode,
		Comment:            comment,
	}, nil
}

func parseStatus(data string) (*AprsStatus, error) {
	body := data[1:]

	var ts *Timestamp
	if len(body) >= 7 {
		if t, ok := parseTimestamp(body[0:7]); ok {
			ts = &t
			body = body[7:]
		}
	}

	comment := ParseStatusComment(body)
	return &AprsStatus{
		Timestamp: ts,
		Comment:   comment,
	}, nil
}
