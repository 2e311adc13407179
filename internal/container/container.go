/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	container.go: flattens a ServerResponse plus its Enrichment into a
	sink-ready record. The conversion happens once, at the
	boundary between validation and the sinks, so every sink (CSV,
	line-protocol, JSON, broker) writes a flat struct instead of re-deriving
	the same field lookups from the tagged unions.
*/

package container

import (
	"fmt"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/validate"
)

// Kind tags which variant a Container holds.
type Kind int

const (
	KindUnknown Kind = iota
	KindPosition
	KindStatus
	KindServerComment
	KindParserError
)

// Container is the top-level tagged union returned by FromServerResponse.
// Exactly one of the typed fields matching Kind is populated.
type Container struct {
	Kind Kind

	Position      *PositionContainer
	Status        *StatusContainer
	ServerComment *ServerCommentContainer
	ParserError   *ParserErrorContainer
}

// envelope holds the fields common to every container variant: when the
// line arrived, its raw text, and (where applicable) the reconstructed
// wall-clock time of the event itself.
type envelope struct {
	ArrivalTS  time.Time  `json:"ts"`
	RawMessage string     `json:"raw_message"`
	ReceiverTS *time.Time `json:"receiver_ts,omitempty"`
}

// PositionContainer is the flattened record for a parsed position report,
// enriched with geometry and plausibility.
type PositionContainer struct {
	envelope

	SrcCall  aprs.Callsign `json:"src_call"`
	DstCall  aprs.Callsign `json:"dst_call"`
	Receiver aprs.Callsign `json:"receiver"`

	ReceiverTime       *aprs.Timestamp `json:"receiver_time,omitempty"`
	MessagingSupported bool            `json:"messaging_supported"`
	Latitude           float64         `json:"latitude"`
	Longitude          float64         `json:"longitude"`
	Location           string          `json:"location"` // WKT "POINT(lon lat)", SRID 4326
	SymbolTable        string          `json:"symbol_table"`
	SymbolCode         string          `json:"symbol_code"`

	Bearing                 *float64 `json:"bearing,omitempty"`
	Distance                *float64 `json:"distance,omitempty"`
	NormalizedSignalQuality *float64 `json:"normalized_signal_quality,omitempty"`
	Plausibility            *uint16  `json:"plausibility,omitempty"`

	Course          *uint16  `json:"course,omitempty"`
	Speed           *uint16  `json:"speed,omitempty"`
	Altitude        *uint32  `json:"altitude,omitempty"`
	AddressType     *uint8   `json:"address_type,omitempty"`
	AircraftType    *uint8   `json:"aircraft_type,omitempty"`
	IsStealth       *bool    `json:"is_stealth,omitempty"`
	IsNoTrack       *bool    `json:"is_notrack,omitempty"`
	Address         *uint32  `json:"address,omitempty"`
	ClimbRate       *int16   `json:"climb_rate,omitempty"`
	TurnRate        *float64 `json:"turn_rate,omitempty"`
	SignalQuality   *float64 `json:"signal_quality,omitempty"`
	Error           *uint8   `json:"error,omitempty"`
	FrequencyOffset *float64 `json:"frequency_offset,omitempty"`
	GPSQuality      *string  `json:"gps_quality,omitempty"`
	FlightLevel     *float64 `json:"flight_level,omitempty"`
	SignalPower     *float64 `json:"signal_power,omitempty"`
	SoftwareVersion *float64 `json:"software_version,omitempty"`
	HardwareVersion *uint8   `json:"hardware_version,omitempty"`
	OriginalAddress *uint32  `json:"original_address,omitempty"`

	WindDirection      *uint16 `json:"wind_direction,omitempty"`
	WindSpeed          *uint16 `json:"wind_speed,omitempty"`
	Gust               *uint16 `json:"gust,omitempty"`
	Temperature        *int16  `json:"temperature,omitempty"`
	Rainfall1h         *uint16 `json:"rainfall_1h,omitempty"`
	Rainfall24h        *uint16 `json:"rainfall_24h,omitempty"`
	RainfallMidnight   *uint16 `json:"rainfall_midnight,omitempty"`
	Humidity           *uint8  `json:"humidity,omitempty"`
	BarometricPressure *uint32 `json:"barometric_pressure,omitempty"`

	Unparsed string `json:"unparsed,omitempty"`
}

// StatusContainer is the flattened record for a parsed receiver-status
// report.
type StatusContainer struct {
	envelope

	SrcCall  aprs.Callsign `json:"src_call"`
	DstCall  aprs.Callsign `json:"dst_call"`
	Receiver aprs.Callsign `json:"receiver"`

	ReceiverTime *aprs.Timestamp `json:"receiver_time,omitempty"`

	Version                  *string  `json:"version,omitempty"`
	Platform                 *string  `json:"platform,omitempty"`
	CPULoad                  *float64 `json:"cpu_load,omitempty"`
	RAMFree                  *float64 `json:"ram_free,omitempty"`
	RAMTotal                 *float64 `json:"ram_total,omitempty"`
	NTPOffset                *float64 `json:"ntp_offset,omitempty"`
	NTPCorrection            *float64 `json:"ntp_correction,omitempty"`
	Voltage                  *float64 `json:"voltage,omitempty"`
	Amperage                 *float64 `json:"amperage,omitempty"`
	CPUTemperature           *float64 `json:"cpu_temperature,omitempty"`
	VisibleSenders           *uint16  `json:"visible_senders,omitempty"`
	Senders                  *uint16  `json:"senders,omitempty"`
	Latency                  *float64 `json:"latency,omitempty"`
	RFCorrectionManual       *int16   `json:"rf_correction_manual,omitempty"`
	RFCorrectionAutomatic    *float64 `json:"rf_correction_automatic,omitempty"`
	Noise                    *float64 `json:"noise,omitempty"`
	SendersSignalQuality     *float64 `json:"senders_signal_quality,omitempty"`
	SendersMessages          *uint32  `json:"senders_messages,omitempty"`
	GoodSendersSignalQuality *float64 `json:"good_senders_signal_quality,omitempty"`
	GoodSenders              *uint16  `json:"good_senders,omitempty"`
	GoodAndBadSenders        *uint16  `json:"good_and_bad_senders,omitempty"`

	Unparsed string `json:"unparsed,omitempty"`
}

// ServerCommentContainer is the flattened record for an APRS-IS server
// banner line.
type ServerCommentContainer struct {
	envelope

	Version   string    `json:"version"`
	Timestamp time.Time `json:"server_timestamp"`
	Server    string    `json:"server"`
	IPAddress string    `json:"ip_address"`
	Port      string    `json:"port"`
}

// ParserErrorContainer is the flattened record for a line that failed to
// parse.
type ParserErrorContainer struct {
	envelope

	ErrorMessage string `json:"error_message"`
}

// FromServerResponse flattens resp and its enrichment into a Container. The
// conversion is total: every ServerResponse kind maps to exactly one
// Container kind, and unrecognized kinds degrade to KindUnknown rather than
// panicking.
func FromServerResponse(resp aprs.ServerResponse, enr validate.Enrichment) Container {
	env := envelope{
		ArrivalTS:  enr.ArrivalTS,
		RawMessage: resp.Raw,
		ReceiverTS: enr.ReceiverTS,
	}

	switch resp.Kind {
	case aprs.ResponsePacket:
		return fromPacket(resp.Packet, env, enr)
	case aprs.ResponseServerComment:
		sc := resp.ServerComment
		return Container{Kind: KindServerComment, ServerComment: &ServerCommentContainer{
			envelope:  env,
			Version:   sc.Version,
			Timestamp: sc.Timestamp,
			Server:    sc.Server,
			IPAddress: sc.IPAddress,
			Port:      sc.Port,
		}}
	case aprs.ResponseParserError:
		return Container{Kind: KindParserError, ParserError: &ParserErrorContainer{
			envelope:     env,
			ErrorMessage: resp.ParserError.Message,
		}}
	default:
		return Container{Kind: KindUnknown}
	}
}

func fromPacket(packet *aprs.AprsPacket, env envelope, enr validate.Enrichment) Container {
	switch packet.Data.Kind {
	case aprs.DataPosition:
		return Container{Kind: KindPosition, Position: positionContainer(packet, env, enr)}
	case aprs.DataStatus:
		return Container{Kind: KindStatus, Status: statusContainer(packet, env)}
	default:
		// Messages and unknown payloads carry no structured fields worth
		// sinking beyond the raw line already captured in env.
		return Container{Kind: KindUnknown}
	}
}

func positionContainer(packet *aprs.AprsPacket, env envelope, enr validate.Enrichment) *PositionContainer {
	pos := packet.Data.Position
	c := pos.Comment

	pc := &PositionContainer{
		envelope: env,
		SrcCall:  packet.From,
		DstCall:  packet.To,
		Receiver: packet.Receiver(),

		ReceiverTime:       pos.Timestamp,
		MessagingSupported: pos.MessagingSupported,
		Latitude:           pos.Latitude,
		Longitude:          pos.Longitude,
		Location:           fmt.Sprintf("POINT(%v %v)", pos.Longitude, pos.Latitude),
		SymbolTable:        string(pos.SymbolTable),
		SymbolCode:         string(pos.SymbolCode),

		Bearing:                 enr.Bearing,
		Distance:                enr.Distance,
		NormalizedSignalQuality: enr.NormalizedSignalQuality,
		Plausibility:            enr.Plausibility,

		Course:          c.Course,
		Speed:           c.Speed,
		Altitude:        c.Altitude,
		ClimbRate:       c.ClimbRate,
		TurnRate:        c.TurnRate,
		SignalQuality:   c.SignalQuality,
		Error:           c.Error,
		FrequencyOffset: c.FrequencyOffset,
		GPSQuality:      c.GPSQuality,
		FlightLevel:     c.FlightLevel,
		SignalPower:     c.SignalPower,
		SoftwareVersion: c.SoftwareVersion,
		HardwareVersion: c.HardwareVersion,
		OriginalAddress: c.OriginalAddress,

		WindDirection:      c.WindDirection,
		WindSpeed:          c.WindSpeed,
		Gust:               c.Gust,
		Temperature:        c.Temperature,
		Rainfall1h:         c.Rainfall1h,
		Rainfall24h:        c.Rainfall24h,
		RainfallMidnight:   c.RainfallMidnight,
		Humidity:           c.Humidity,
		BarometricPressure: c.BarometricPressure,

		Unparsed: c.Unparsed,
	}

	if c.ID != nil {
		pc.AddressType = &c.ID.AddressType
		pc.AircraftType = &c.ID.AircraftType
		pc.IsStealth = &c.ID.IsStealth
		pc.IsNoTrack = &c.ID.IsNoTrack
		pc.Address = &c.ID.Address
	}

	return pc
}

func statusContainer(packet *aprs.AprsPacket, env envelope) *StatusContainer {
	status := packet.Data.Status
	c := status.Comment

	return &StatusContainer{
		envelope: env,
		SrcCall:  packet.From,
		DstCall:  packet.To,
		Receiver: packet.Receiver(),

		ReceiverTime: status.Timestamp,

		Version:                  c.Version,
		Platform:                 c.Platform,
		CPULoad:                  c.CPULoad,
		RAMFree:                  c.RAMFree,
		RAMTotal:                 c.RAMTotal,
		NTPOffset:                c.NTPOffset,
		NTPCorrection:            c.NTPCorrection,
		Voltage:                  c.Voltage,
		Amperage:                 c.Amperage,
		CPUTemperature:           c.CPUTemperature,
		VisibleSenders:           c.VisibleSenders,
		Senders:                  c.Senders,
		Latency:                  c.Latency,
		RFCorrectionManual:       c.RFCorrectionManual,
		RFCorrectionAutomatic:    c.RFCorrectionAutomatic,
		Noise:                    c.Noise,
		SendersSignalQuality:     c.SendersSignalQuality,
		SendersMessages:          c.SendersMessages,
		GoodSendersSignalQuality: c.GoodSendersSignalQuality,
		GoodSenders:              c.GoodSenders,
		GoodAndBadSenders:        c.GoodAndBadSenders,

		Unparsed: c.Unparsed,
	}
}
