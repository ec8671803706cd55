// Package core provides the domain types and parsing utilities shared by the
// projection engine and the store adapters.
//
// This file contains functions for parsing monetary amounts, day-first dates
// and the loose numeric fields the external store carries as free text.
package core

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAmount converts a decimal string into a non-negative float64 amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and strips
// a leading currency symbol and thousands separators. Signs are rejected:
// amounts are magnitudes, the sign is derived from the transaction kind.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	// "1.234,56" and "1,234.56" both appear in historical rows. Whichever
	// separator comes last is the decimal one; the other is grouping.
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// dateLayouts lists the formats found in the store, day-first variants first.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2/1/2006",
	"02/01/06",
}

// ParseDate parses a store date cell. A zero time and false signal an
// unparsable date; callers exclude such rows from projection rather than
// failing the batch.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return NewDate(d.Year(), int(d.Month()), d.Day()), true
		}
	}
	return time.Time{}, false
}

// ParseIntDefault parses a loose integer cell, substituting def for anything
// non-numeric. Store rows carry "-" or blanks where a field does not apply.
func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Sheets sometimes hands back "3.0" for integer cells.
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return int(f)
	}
	return def
}

// ParseFloatDefault parses a loose decimal cell, substituting def when the
// cell is blank or non-numeric.
func ParseFloatDefault(s string, def float64) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return def
	}
	return v
}

// FirstToken returns the first whitespace-delimited token of a description.
// It is the store's coarse category tag; "Pago tarjeta" and "Pago renta"
// both tag as "Pago".
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
