/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	token.go: pure, allocation-light helpers shared by the position and
	status comment parsers. These never know about the APRS grammar; they
	just split "numberunit" strings and extract signed decimals from noisy
	mixed text.
*/

package aprs

import "strings"

// SplitValueUnit splits s into a signed-decimal prefix and a trailing unit
// suffix, e.g. "-3kHz" -> ("-3", "kHz"). The prefix must contain at least one
// digit, at most one '.', and must not consume the whole string (a unit
// suffix has to remain). Returns ok=false if no such split exists.
func SplitValueUnit(s string) (value, unit string, ok bool) {
	hasDigit := false
	hasDot := false
	splitPos := -1

scan:
	for i, c := range s {
		switch {
		case i == 0 && (c == '+' || c == '-'):
			// sign, doesn't extend the numeric content by itself
		case c == '.' && !hasDot:
			hasDot = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			// first non-numeric rune terminates the scan
			break scan
		}
		if hasDigit {
			splitPos = i
		}
	}

	if splitPos < 0 || !hasDigit {
		return "", "", false
	}
	if splitPos == len(s)-1 {
		// whole string consumed, no unit suffix remains
		return "", "", false
	}
	return s[:splitPos+1], s[splitPos+1:], true
}

// ExtractValues scans s left-to-right and returns every signed-decimal
// substring it contains, in order. A '+'/'-' always starts a new token;
// digits and '.' extend the current token; any other rune terminates it.
func ExtractValues(s string) []string {
	var result []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			result = append(result, current.String())
			current.Reset()
		}
	}

	for _, c := range s {
		switch {
		case c == '+' || c == '-':
			flush()
			current.WriteRune(c)
		case (c >= '0' && c <= '9') || c == '.':
			current.WriteRune(c)
		default:
			flush()
		}
	}
	flush()

	return result
}
