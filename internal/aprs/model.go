/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	model.go: domain types for the OGN/APRS-IS message grammar. ServerResponse
	and AprsData are tagged unions dispatched through a Kind field rather than
	an interface hierarchy, so downstream code can switch exhaustively without
	type assertions scattered everywhere.
*/

package aprs

import "time"

// Callsign is a short uppercase station identifier, e.g. "FLRDDA1B2" or
// "GLIDERN1".
type Callsign string

// ResponseKind tags which variant a ServerResponse holds.
type ResponseKind int

const (
	ResponseUnknown ResponseKind = iota
	ResponsePacket
	ResponseServerComment
	ResponseParserError
	ResponseComment
)

// ServerResponse is the top-level tagged union produced by the packet
// parser. Exactly one of the typed fields matching Kind is populated.
type ServerResponse struct {
	Kind ResponseKind
	// Raw is the exact source line this response was parsed from, kept for
	// sinks that archive the original text alongside the structured record.
	Raw string

	Packet        *AprsPacket
	ServerComment *ServerComment
	ParserError   *ParserError
}

// ParserError carries a line that failed to parse as a valid APRS packet.
type ParserError struct {
	Message string
	Line    string
}

func (e *ParserError) Error() string { return e.Message }

// ServerComment is the APRS-IS server's own banner/heartbeat line, e.g.
// "# aprsc 2.1.19-g730c5c1 26 Jul 2024 12:00:00 GMT GLIDERN1 1.2.3.4:14580".
type ServerComment struct {
	Version   string
	Timestamp time.Time
	Server    string
	IPAddress string
	Port      string
}

// DataKind tags which variant an AprsData holds.
type DataKind int

const (
	DataUnknown DataKind = iota
	DataPosition
	DataStatus
	DataMessage
)

// AprsData is the tagged union carried by an AprsPacket's payload. Message
// and Unknown variants are carried as their raw body text: two-way APRS
// messaging semantics are never decoded, only preserved for serialization.
type AprsData struct {
	Kind     DataKind
	Position *AprsPosition
	Status   *AprsStatus
	Raw      string
}

// AprsPacket is a fully parsed APRS-IS packet: header (from/to/via) plus the
// typed data payload.
type AprsPacket struct {
	From Callsign
	To   Callsign
	// Via is the digipeater/gateway path, in hop order. Via[len(Via)-1] is
	// conventionally the receiver that physically heard the beacon.
	Via  []Callsign
	Data AprsData
}

// Receiver returns the last hop of Via, the station that actually received
// the beacon over the air.
func (p *AprsPacket) Receiver() Callsign {
	if len(p.Via) == 0 {
		return ""
	}
	return p.Via[len(p.Via)-1]
}

// TimestampKind tags which truncated-time encoding a Timestamp uses.
type TimestampKind int

const (
	TimestampNone TimestampKind = iota
	TimestampHHMMSS
	TimestampDDHHMM
)

// Timestamp is a truncated on-air time reference: either time-of-day
// (HHMMSS) or day-of-month plus time (DDHHMM). Absolute date/year is never
// present on the wire and must be reconstructed (see internal/timeutil).
type Timestamp struct {
	Kind  TimestampKind
	H1    int // hour (HHMMSS) or day-of-month (DDHHMM)
	Min   int // minute (HHMMSS) or hour (DDHHMM)
	S3    int // second (HHMMSS) or minute (DDHHMM)
}

// HHMMSS builds a time-of-day timestamp.
func HHMMSS(h, m, s int) Timestamp { return Timestamp{Kind: TimestampHHMMSS, H1: h, Min: m, S3: s} }

// DDHHMM builds a day-of-month timestamp.
func DDHHMM(d, h, m int) Timestamp { return Timestamp{Kind: TimestampDDHHMM, H1: d, Min: h, S3: m} }

// AprsPosition is a parsed position report.
type AprsPosition struct {
	Timestamp           *Timestamp
	MessagingSupported  bool
	Latitude            float64
	Longitude           float64
	SymbolTable         rune
	SymbolCode          rune
	Comment             PositionComment
}

// AprsStatus is a parsed receiver-status report.
type AprsStatus struct {
	Timestamp *Timestamp
	Comment   StatusComment
}

// AdditionalPrecision carries sub-minute latitude/longitude precision
// digits from a "!Wab!" token, each in 0..9.
type AdditionalPrecision struct {
	Lat uint8
	Lon uint8
}

// ID is the bit-packed 24-bit aircraft identifier and its packed flag byte,
// decoded per the fixed STttttaa layout documented at matchID in
// position_comment.go.
type ID struct {
	Address      uint32
	AddressType  uint8
	AircraftType uint8
	IsStealth    bool
	IsNoTrack    bool
}

// PositionComment is the free-form, order-independent tail of a position
// report. All fields are optional; at most one value is ever set per field
// regardless of how many matching tokens appear (first-set wins).
type PositionComment struct {
	Course              *uint16
	Speed               *uint16
	Altitude            *uint32
	AdditionalPrecision *AdditionalPrecision
	ID                  *ID
	ClimbRate           *int16
	TurnRate            *float64
	SignalQuality       *float64
	Error               *uint8
	FrequencyOffset     *float64
	GPSQuality          *string
	FlightLevel         *float64
	SignalPower         *float64
	SoftwareVersion     *float64
	HardwareVersion     *uint8
	OriginalAddress     *uint32

	// Weather-station tokens (supplemented from original_source; standard
	// APRS weather-report grammar, tried only after the OGN-specific
	// tokens above have all failed to match).
	WindDirection     *uint16
	WindSpeed         *uint16
	Gust              *uint16
	Temperature       *int16
	Rainfall1h        *uint16
	Rainfall24h       *uint16
	RainfallMidnight  *uint16
	Humidity          *uint8
	BarometricPressure *uint32

	Unparsed string
}

// StatusComment is the free-form, order-independent tail of a receiver
// status report.
type StatusComment struct {
	Version                  *string
	Platform                 *string
	CPULoad                  *float64
	RAMFree                  *float64
	RAMTotal                 *float64
	NTPOffset                *float64
	NTPCorrection            *float64
	Voltage                  *float64
	Amperage                 *float64
	CPUTemperature           *float64
	VisibleSenders           *uint16
	Senders                  *uint16
	Latency                  *float64
	RFCorrectionManual       *int16
	RFCorrectionAutomatic    *float64
	Noise                    *float64
	SendersSignalQuality     *float64
	SendersMessages          *uint32
	GoodSendersSignalQuality *float64
	GoodSenders              *uint16
	GoodAndBadSenders        *uint16

	Unparsed string
}
