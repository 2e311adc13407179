/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	status_comment.go: the free-form receiver-status grammar.
	Same whitespace-token, first-match-wins strategy as the position-comment
	parser, but the token shapes here are built from labeled prefixes
	("CPU:", "RAM:", ...) rather than trailing units, so each gets its own
	small matcher instead of a shared dispatch table.
*/

package aprs

import (
	"strconv"
	"strings"
)

// ParseStatusComment parses the free-form tail of a receiver-status report.
func ParseStatusComment(s string) StatusComment {
	var c StatusComment
	var unparsed []string

	for _, tok := range strings.Fields(s) {
		switch {
		case c.Version == nil && matchVersionPlatform(tok, &c):
		case c.CPULoad == nil && matchPrefixFloat(tok, "CPU:", &c.CPULoad):
		case c.RAMFree == nil && matchRAM(tok, &c):
		case c.NTPOffset == nil && matchNTP(tok, &c):
		case c.VisibleSenders == nil && matchAcfts(tok, &c):
		case c.Latency == nil && matchLatency(tok, &c):
		case c.RFCorrectionManual == nil && matchRF(tok, &c):
		case matchFallbackUnit(tok, &c):
		default:
			unparsed = append(unparsed, tok)
		}
	}

	if len(unparsed) > 0 {
		c.Unparsed = strings.Join(unparsed, " ")
	}
	return c
}

// "vX.Y.Z.PLATFORM": split at the third '.'.
func matchVersionPlatform(tok string, c *StatusComment) bool {
	if len(tok) < 2 || tok[0] != 'v' {
		return false
	}
	rest := tok[1:]
	dots := 0
	splitAt := -1
	for i, r := range rest {
		if r == '.' {
			dots++
			if dots == 3 {
				splitAt = i
				break
			}
		}
	}
	if splitAt < 0 || splitAt == len(rest)-1 {
		return false
	}
	version := rest[:splitAt]
	platform := rest[splitAt+1:]
	if version == "" || platform == "" {
		return false
	}
	c.Version = &version
	c.Platform = &platform
	return true
}

func matchPrefixFloat(tok, prefix string, dst **float64) bool {
	if !strings.HasPrefix(tok, prefix) {
		return false
	}
	v, err := strconv.ParseFloat(tok[len(prefix):], 64)
	if err != nil {
		return false
	}
	*dst = &v
	return true
}

// "RAM:<free>/<total>MB"
func matchRAM(tok string, c *StatusComment) bool {
	const prefix, suffix = "RAM:", "MB"
	if !strings.HasPrefix(tok, prefix) || !strings.HasSuffix(tok, suffix) {
		return false
	}
	body := tok[len(prefix) : len(tok)-len(suffix)]
	i := strings.IndexByte(body, '/')
	if i < 0 {
		return false
	}
	free, err1 := strconv.ParseFloat(body[:i], 64)
	total, err2 := strconv.ParseFloat(body[i+1:], 64)
	if err1 != nil || err2 != nil {
		return false
	}
	c.RAMFree = &free
	c.RAMTotal = &total
	return true
}

// "NTP:<off>ms/<corr>ppm"
func matchNTP(tok string, c *StatusComment) bool {
	const prefix = "NTP:"
	if !strings.HasPrefix(tok, prefix) {
		return false
	}
	body := tok[len(prefix):]
	i := strings.Index(body, "ms/")
	if i < 0 {
		return false
	}
	offsetStr := body[:i]
	rest := body[i+len("ms/"):]
	if !strings.HasSuffix(rest, "ppm") {
		return false
	}
	corrStr := rest[:len(rest)-len("ppm")]
	offset, err1 := strconv.ParseFloat(offsetStr, 64)
	corr, err2 := strconv.ParseFloat(corrStr, 64)
	if err1 != nil || err2 != nil {
		return false
	}
	c.NTPOffset = &offset
	c.NTPCorrection = &corr
	return true
}

// "<visible>/<senders>Acfts[1h]"
func matchAcfts(tok string, c *StatusComment) bool {
	const suffix = "Acfts[1h]"
	if !strings.HasSuffix(tok, suffix) {
		return false
	}
	body := tok[:len(tok)-len(suffix)]
	i := strings.IndexByte(body, '/')
	if i < 0 {
		return false
	}
	visible, err1 := strconv.ParseUint(body[:i], 10, 16)
	senders, err2 := strconv.ParseUint(body[i+1:], 10, 16)
	if err1 != nil || err2 != nil {
		return false
	}
	vv, sv := uint16(visible), uint16(senders)
	c.VisibleSenders = &vv
	c.Senders = &sv
	return true
}

// "Lat:<sec>s"
func matchLatency(tok string, c *StatusComment) bool {
	const prefix, suffix = "Lat:", "s"
	if !strings.HasPrefix(tok, prefix) || !strings.HasSuffix(tok, suffix) {
		return false
	}
	v, err := strconv.ParseFloat(tok[len(prefix):len(tok)-len(suffix)], 64)
	if err != nil {
		return false
	}
	c.Latency = &v
	return true
}

// "RF:<...>" decomposed via ExtractValues, accepting 3, 6, or 10 values.
// Indices 4 and 7 of the 10-value form are unit/distance labels and are
// ignored, per the upstream grammar.
func matchRF(tok string, c *StatusComment) bool {
	const prefix = "RF:"
	if !strings.HasPrefix(tok, prefix) {
		return false
	}
	values := ExtractValues(tok[len(prefix):])
	switch len(values) {
	case 3, 6, 10:
	default:
		return false
	}

	manual, err := strconv.ParseInt(values[0], 10, 16)
	if err != nil {
		return false
	}
	auto, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return false
	}
	noise, err := strconv.ParseFloat(values[2], 64)
	if err != nil {
		return false
	}
	mv := int16(manual)
	c.RFCorrectionManual = &mv
	c.RFCorrectionAutomatic = &auto
	c.Noise = &noise

	if len(values) >= 6 {
		ssq, err := strconv.ParseFloat(values[3], 64)
		if err != nil {
			return false
		}
		messages, err := strconv.ParseUint(values[5], 10, 32)
		if err != nil {
			return false
		}
		mv := uint32(messages)
		c.SendersSignalQuality = &ssq
		c.SendersMessages = &mv
	}

	if len(values) == 10 {
		gssq, err := strconv.ParseFloat(values[6], 64)
		if err != nil {
			return false
		}
		good, err := strconv.ParseUint(values[8], 10, 16)
		if err != nil {
			return false
		}
		goodAndBad, err := strconv.ParseUint(values[9], 10, 16)
		if err != nil {
			return false
		}
		gv, gbv := uint16(good), uint16(goodAndBad)
		c.GoodSendersSignalQuality = &gssq
		c.GoodSenders = &gv
		c.GoodAndBadSenders = &gbv
	}

	return true
}

// Fallback: split_value_unit with C -> cpu_temperature, V -> voltage,
// A -> amperage.
func matchFallbackUnit(tok string, c *StatusComment) bool {
	valueStr, unit, ok := SplitValueUnit(tok)
	if !ok {
		return false
	}
	var dst **float64
	switch unit {
	case "C":
		dst = &c.CPUTemperature
	case "V":
		dst = &c.Voltage
	case "A":
		dst = &c.Amperage
	default:
		return false
	}
	if *dst != nil {
		return false
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return false
	}
	*dst = &v
	return true
}
