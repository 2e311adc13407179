/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	serialize.go: renders a container.Container into each of the four
	output formats a sink may want. Each function is a pure function of
	its container argument; none of them mutate or retain it.
*/

package serialize

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogn-network/ogn-ingest/internal/aprs"
	"github.com/ogn-network/ogn-ingest/internal/container"
)

// Raw renders the arrival-ordered "<nanos>: <raw-line>" form used by the
// stdout sink's raw mode and recoverable by the stdin source on replay.
func Raw(c container.Container) string {
	var arrival int64
	var rawLine string
	switch c.Kind {
	case container.KindPosition:
		arrival, rawLine = c.Position.ArrivalTS.UnixNano(), c.Position.RawMessage
	case container.KindStatus:
		arrival, rawLine = c.Status.ArrivalTS.UnixNano(), c.Status.RawMessage
	case container.KindServerComment:
		arrival, rawLine = c.ServerComment.ArrivalTS.UnixNano(), c.ServerComment.RawMessage
	case container.KindParserError:
		arrival, rawLine = c.ParserError.ArrivalTS.UnixNano(), c.ParserError.RawMessage
	}
	return strconv.FormatInt(arrival, 10) + ": " + rawLine
}

// JSON renders the container as a flat JSON object, omitting unpopulated
// enrichment fields.
func JSON(c container.Container) ([]byte, error) {
	switch c.Kind {
	case container.KindPosition:
		return json.Marshal(c.Position)
	case container.KindStatus:
		return json.Marshal(c.Status)
	case container.KindServerComment:
		return json.Marshal(c.ServerComment)
	case container.KindParserError:
		return json.Marshal(c.ParserError)
	default:
		return nil, fmt.Errorf("serialize: JSON: unsupported container kind %v", c.Kind)
	}
}

// measurementName returns the line-protocol measurement / CSV table name
// for the container's variant.
func measurementName(kind container.Kind) (string, error) {
	switch kind {
	case container.KindPosition:
		return "positions", nil
	case container.KindStatus:
		return "statuses", nil
	case container.KindServerComment:
		return "server_comments", nil
	case container.KindParserError:
		return "errors", nil
	default:
		return "", fmt.Errorf("serialize: unsupported container kind %v", kind)
	}
}

// LineProtocol renders the container as one InfluxDB-style line-protocol
// line: measurement, tags (src_call/dst_call/receiver, when present),
// fields (everything else), timestamp in nanoseconds since epoch.
func LineProtocol(c container.Container) (string, error) {
	measurement, err := measurementName(c.Kind)
	if err != nil {
		return "", err
	}

	var tags []kv
	var fields []kv
	var arrival int64

	switch c.Kind {
	case container.KindPosition:
		p := c.Position
		arrival = p.ArrivalTS.UnixNano()
		tags = []kv{{"src_call", string(p.SrcCall)}, {"dst_call", string(p.DstCall)}}
		if p.Receiver != "" {
			tags = append(tags, kv{"receiver", string(p.Receiver)})
		}
		fields = positionFields(p)
	case container.KindStatus:
		s := c.Status
		arrival = s.ArrivalTS.UnixNano()
		tags = []kv{{"src_call", string(s.SrcCall)}, {"dst_call", string(s.DstCall)}}
		if s.Receiver != "" {
			tags = append(tags, kv{"receiver", string(s.Receiver)})
		}
		fields = statusFields(s)
	case container.KindServerComment:
		sc := c.ServerComment
		arrival = sc.ArrivalTS.UnixNano()
		fields = []kv{
			{"raw_message", quotedField(sc.RawMessage)},
			{"version", quotedField(sc.Version)},
			{"server", quotedField(sc.Server)},
			{"ip_address", quotedField(sc.IPAddress)},
			{"port", quotedField(sc.Port)},
		}
	case container.KindParserError:
		pe := c.ParserError
		arrival = pe.ArrivalTS.UnixNano()
		fields = []kv{
			{"raw_message", quotedField(pe.RawMessage)},
			{"error_message", quotedField(pe.ErrorMessage)},
		}
	}

	if len(fields) == 0 {
		return "", fmt.Errorf("serialize: LineProtocol: no fields for %s", measurement)
	}

	var b strings.Builder
	b.WriteString(escapeLP(measurement))
	for _, t := range tags {
		b.WriteByte(',')
		b.WriteString(escapeLP(t.key))
		b.WriteByte('=')
		b.WriteString(escapeLP(t.value))
	}
	b.WriteByte(' ')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeLP(f.key))
		b.WriteByte('=')
		b.WriteString(f.value)
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(arrival, 10))
	return b.String(), nil
}

type kv struct{ key, value string }

// escapeLP escapes spaces and commas in a tag key/value or the measurement
// name, per the line-protocol grammar.
func escapeLP(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, " ", `\ `)
	s = strings.ReplaceAll(s, "=", `\=`)
	return s
}

// quotedField renders a string field value in line-protocol's
// double-quoted field syntax.
func quotedField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func floatField(f *float64) (kv string, ok bool) {
	if f == nil {
		return "", false
	}
	return strconv.FormatFloat(*f, 'g', -1, 64), true
}

func positionFields(p *container.PositionContainer) []kv {
	fields := []kv{{"raw_message", quotedField(p.RawMessage)}}
	if p.ReceiverTS != nil {
		fields = append(fields, kv{"receiver_time", quotedField(p.ReceiverTS.Format("2006-01-02T15:04:05.999999999Z07:00"))})
	}
	fields = append(fields,
		kv{"messaging_supported", strconv.FormatBool(p.MessagingSupported)},
		kv{"latitude", strconv.FormatFloat(p.Latitude, 'g', -1, 64)},
		kv{"longitude", strconv.FormatFloat(p.Longitude, 'g', -1, 64)},
		kv{"symbol_table", quotedField(p.SymbolTable)},
		kv{"symbol_code", quotedField(p.SymbolCode)},
	)
	appendUint16(&fields, "course", p.Course)
	appendUint16(&fields, "speed", p.Speed)
	appendUint32(&fields, "altitude", p.Altitude)
	appendUint8(&fields, "address_type", p.AddressType)
	appendUint8(&fields, "aircraft_type", p.AircraftType)
	if p.IsStealth != nil {
		fields = append(fields, kv{"is_stealth", strconv.FormatBool(*p.IsStealth)})
	}
	if p.IsNoTrack != nil {
		fields = append(fields, kv{"is_notrack", strconv.FormatBool(*p.IsNoTrack)})
	}
	appendUint32(&fields, "address", p.Address)
	appendInt16(&fields, "climb_rate", p.ClimbRate)
	appendFloat(&fields, "turn_rate", p.TurnRate)
	appendFloat(&fields, "signal_quality", p.SignalQuality)
	appendUint8(&fields, "error", p.Error)
	appendFloat(&fields, "frequency_offset", p.FrequencyOffset)
	if p.GPSQuality != nil {
		fields = append(fields, kv{"gps_quality", quotedField(*p.GPSQuality)})
	}
	appendFloat(&fields, "flight_level", p.FlightLevel)
	appendFloat(&fields, "signal_power", p.SignalPower)
	appendFloat(&fields, "software_version", p.SoftwareVersion)
	appendUint8(&fields, "hardware_version", p.HardwareVersion)
	appendUint32(&fields, "original_address", p.OriginalAddress)
	appendUint16(&fields, "wind_direction", p.WindDirection)
	appendUint16(&fields, "wind_speed", p.WindSpeed)
	appendUint16(&fields, "gust", p.Gust)
	appendInt16(&fields, "temperature", p.Temperature)
	appendUint16(&fields, "rainfall_1h", p.Rainfall1h)
	appendUint16(&fields, "rainfall_24h", p.Rainfall24h)
	appendUint16(&fields, "rainfall_midnight", p.RainfallMidnight)
	appendUint8(&fields, "humidity", p.Humidity)
	appendUint32(&fields, "barometric_pressure", p.BarometricPressure)
	if p.Unparsed != "" {
		fields = append(fields, kv{"unparsed", quotedField(p.Unparsed)})
	}
	appendFloat(&fields, "bearing", p.Bearing)
	appendFloat(&fields, "distance", p.Distance)
	appendFloat(&fields, "normalized_signal_quality", p.NormalizedSignalQuality)
	fields = append(fields, kv{"location", quotedField(p.Location)})
	if p.Plausibility != nil {
		fields = append(fields, kv{"plausibility", strconv.FormatUint(uint64(*p.Plausibility), 10)})
	}
	return fields
}

func statusFields(s *container.StatusContainer) []kv {
	fields := []kv{{"raw_message", quotedField(s.RawMessage)}}
	if s.ReceiverTS != nil {
		fields = append(fields, kv{"receiver_time", quotedField(s.ReceiverTS.Format("2006-01-02T15:04:05.999999999Z07:00"))})
	}
	if s.Version != nil {
		fields = append(fields, kv{"version", quotedField(*s.Version)})
	}
	if s.Platform != nil {
		fields = append(fields, kv{"platform", quotedField(*s.Platform)})
	}
	appendFloat(&fields, "cpu_load", s.CPULoad)
	appendFloat(&fields, "ram_free", s.RAMFree)
	appendFloat(&fields, "ram_total", s.RAMTotal)
	appendFloat(&fields, "ntp_offset", s.NTPOffset)
	appendFloat(&fields, "ntp_correction", s.NTPCorrection)
	appendFloat(&fields, "voltage", s.Voltage)
	appendFloat(&fields, "amperage", s.Amperage)
	appendFloat(&fields, "cpu_temperature", s.CPUTemperature)
	appendUint16(&fields, "visible_senders", s.VisibleSenders)
	appendFloat(&fields, "latency", s.Latency)
	appendUint16(&fields, "senders", s.Senders)
	appendInt16(&fields, "rf_correction_manual", s.RFCorrectionManual)
	appendFloat(&fields, "rf_correction_automatic", s.RFCorrectionAutomatic)
	appendFloat(&fields, "noise", s.Noise)
	appendFloat(&fields, "senders_signal_quality", s.SendersSignalQuality)
	appendUint32(&fields, "senders_messages", s.SendersMessages)
	appendFloat(&fields, "good_senders_signal_quality", s.GoodSendersSignalQuality)
	appendUint16(&fields, "good_senders", s.GoodSenders)
	appendUint16(&fields, "good_and_bad_senders", s.GoodAndBadSenders)
	if s.Unparsed != "" {
		fields = append(fields, kv{"unparsed", quotedField(s.Unparsed)})
	}
	return fields
}

func appendFloat(fields *[]kv, key string, v *float64) {
	if f, ok := floatField(v); ok {
		*fields = append(*fields, kv{key, f})
	}
}

func appendUint8(fields *[]kv, key string, v *uint8) {
	if v != nil {
		*fields = append(*fields, kv{key, strconv.FormatUint(uint64(*v), 10)})
	}
}

func appendUint16(fields *[]kv, key string, v *uint16) {
	if v != nil {
		*fields = append(*fields, kv{key, strconv.FormatUint(uint64(*v), 10)})
	}
}

func appendUint32(fields *[]kv, key string, v *uint32) {
	if v != nil {
		*fields = append(*fields, kv{key, strconv.FormatUint(uint64(*v), 10)})
	}
}

func appendInt16(fields *[]kv, key string, v *int16) {
	if v != nil {
		*fields = append(*fields, kv{key, strconv.FormatInt(int64(*v), 10)})
	}
}

// CSVHeaderPositions/Statuses/ServerComments/Errors are the fixed column
// orders used by the relational bulk-loader (spec §6) and by CSVRow below.
var CSVHeaderPositions = []string{
	"ts", "src_call", "dst_call", "receiver", "receiver_time",
	"symbol_table", "symbol_code", "course", "speed", "altitude",
	"address_type", "aircraft_type", "is_stealth", "is_notrack", "address",
	"climb_rate", "turn_rate", "error", "frequency_offset", "signal_quality",
	"gps_quality", "flight_level", "signal_power", "software_version", "hardware_version",
	"original_address", "unparsed", "receiver_ts", "bearing", "distance",
	"normalized_quality", "location", "plausibility",
}

var CSVHeaderStatuses = []string{
	"ts", "src_call", "dst_call", "receiver", "receiver_time",
	"version", "platform", "cpu_load", "ram_free", "ram_total",
	"ntp_offset", "ntp_correction", "voltage", "amperage", "cpu_temperature",
	"visible_senders", "latency", "senders", "rf_correction_manual",
	"rf_correction_automatic", "noise", "senders_signal_quality",
	"senders_messages", "good_senders_signal_quality", "good_senders",
	"good_and_bad_senders", "unparsed", "receiver_ts",
}

var CSVHeaderServerComments = []string{"ts", "version", "server_ts", "server", "ip_address", "port"}

var CSVHeaderErrors = []string{"ts", "raw_message", "error_message"}

// CSVHeader returns the fixed column order for kind.
func CSVHeader(kind container.Kind) ([]string, error) {
	switch kind {
	case container.KindPosition:
		return CSVHeaderPositions, nil
	case container.KindStatus:
		return CSVHeaderStatuses, nil
	case container.KindServerComment:
		return CSVHeaderServerComments, nil
	case container.KindParserError:
		return CSVHeaderErrors, nil
	default:
		return nil, fmt.Errorf("serialize: CSVHeader: unsupported container kind %v", kind)
	}
}

// CSVRow renders the container as a positional CSV row matching CSVHeader's
// column order for the same kind.
func CSVRow(c container.Container) ([]string, error) {
	switch c.Kind {
	case container.KindPosition:
		return csvPositionRow(c.Position), nil
	case container.KindStatus:
		return csvStatusRow(c.Status), nil
	case container.KindServerComment:
		sc := c.ServerComment
		return []string{
			sc.ArrivalTS.Format("2006-01-02T15:04:05.999999999Z07:00"),
			sc.Version,
			sc.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
			sc.Server,
			sc.IPAddress,
			sc.Port,
		}, nil
	case container.KindParserError:
		pe := c.ParserError
		return []string{
			pe.ArrivalTS.Format("2006-01-02T15:04:05.999999999Z07:00"),
			pe.RawMessage,
			pe.ErrorMessage,
		}, nil
	default:
		return nil, fmt.Errorf("serialize: CSVRow: unsupported container kind %v", c.Kind)
	}
}

func csvPositionRow(p *container.PositionContainer) []string {
	return []string{
		p.ArrivalTS.Format("2006-01-02T15:04:05.999999999Z07:00"),
		string(p.SrcCall), string(p.DstCall), string(p.Receiver),
		formatTimestamp(p.ReceiverTime),
		p.SymbolTable, p.SymbolCode,
		formatUint16(p.Course), formatUint16(p.Speed), formatUint32(p.Altitude),
		formatUint8(p.AddressType), formatUint8(p.AircraftType),
		formatBool(p.IsStealth), formatBool(p.IsNoTrack), formatUint32(p.Address),
		formatInt16(p.ClimbRate), formatFloat(p.TurnRate), formatUint8(p.Error),
		formatFloat(p.FrequencyOffset), formatFloat(p.SignalQuality),
		formatStringPtr(p.GPSQuality), formatFloat(p.FlightLevel),
		formatFloat(p.SignalPower), formatFloat(p.SoftwareVersion), formatUint8(p.HardwareVersion),
		formatUint32(p.OriginalAddress), p.Unparsed,
		formatTimePtr(p.ReceiverTS), formatFloat(p.Bearing), formatFloat(p.Distance),
		formatFloat(p.NormalizedSignalQuality), p.Location, formatUint16Val(p.Plausibility),
	}
}

func csvStatusRow(s *container.StatusContainer) []string {
	return []string{
		s.ArrivalTS.Format("2006-01-02T15:04:05.999999999Z07:00"),
		string(s.SrcCall), string(s.DstCall), string(s.Receiver),
		formatTimestamp(s.ReceiverTime),
		formatStringPtr(s.Version), formatStringPtr(s.Platform),
		formatFloat(s.CPULoad), formatFloat(s.RAMFree), formatFloat(s.RAMTotal),
		formatFloat(s.NTPOffset), formatFloat(s.NTPCorrection),
		formatFloat(s.Voltage), formatFloat(s.Amperage), formatFloat(s.CPUTemperature),
		formatUint16(s.VisibleSenders), formatFloat(s.Latency), formatUint16(s.Senders),
		formatInt16(s.RFCorrectionManual), formatFloat(s.RFCorrectionAutomatic),
		formatFloat(s.Noise), formatFloat(s.SendersSignalQuality),
		formatUint32(s.SendersMessages), formatFloat(s.GoodSendersSignalQuality),
		formatUint16(s.GoodSenders), formatUint16(s.GoodAndBadSenders),
		s.Unparsed, formatTimePtr(s.ReceiverTS),
	}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatUint8(v *uint8) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatUint16(v *uint16) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatUint16Val(v *uint16) string { return formatUint16(v) }

func formatUint32(v *uint32) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatInt16(v *int16) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(int64(*v), 10)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTimePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02T15:04:05.999999999Z07:00")
}

// formatTimestamp renders an on-air truncated timestamp (no absolute
// date) as its six digits followed by the on-air kind letter ("h" or "z"),
// since its only use here is archival alongside the reconstructed
// receiver_ts.
func formatTimestamp(ts *aprs.Timestamp) string {
	if ts == nil {
		return ""
	}
	switch ts.Kind {
	case aprs.TimestampHHMMSS:
		return fmt.Sprintf("%02d%02d%02dh", ts.H1, ts.Min, ts.S3)
	case aprs.TimestampDDHHMM:
		return fmt.Sprintf("%02d%02d%02dz", ts.H1, ts.Min, ts.S3)
	default:
		return ""
	}
}

// EncodeCSV writes rows (with their header) to a single CSV-formatted
// string using the stdlib csv writer (RFC 4180 quoting, the dialect that
// PostgreSQL's COPY ... FORMAT CSV reads). The relational sink does not
// call it; it loads rows through pq.CopyIn.
func EncodeCSV(header []string, rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
