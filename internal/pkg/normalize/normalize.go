// Package normalize converts raw textual fields from tabular sources into typed
// values. Every function is total: malformed or missing input resolves to a
// documented default and never returns an error.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IsSentinel reports whether raw is one of the "no value" markers used by the
// source exports: blank (after trimming) or the literal NULL.
func IsSentinel(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || s == "NULL"
}

// Decimal parses a monetary or rate value. Sentinel or unparsable input
// yields zero. Thousands separators are ignored.
func Decimal(raw string) decimal.Decimal {
	if IsSentinel(raw) {
		return decimal.Zero
	}
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Integer parses a whole number. Fractional input is truncated toward zero.
// Sentinel or unparsable input yields nil; callers pick the default that fits
// the field (see IntOrZero).
func Integer(raw string) *int {
	if IsSentinel(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Trunc(f))
	return &n
}

// IntOrZero is Integer with zero substituted for a missing value.
func IntOrZero(raw string) int {
	if n := Integer(raw); n != nil {
		return *n
	}
	return 0
}

// RoundedHours rounds an hour value to the nearest integer (halves away from
// zero). Zero after rounding is treated as absence and yields nil.
func RoundedHours(raw string) *int {
	if IsSentinel(raw) {
		return nil
	}
	n := int(Decimal(raw).Round(0).IntPart())
	if n == 0 {
		return nil
	}
	return &n
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

// Date parses a calendar date. Timestamps are accepted and truncated to the
// UTC calendar day, so every date produced here is date-only in UTC.
// Sentinel or unparsable input yields nil.
func Date(raw string) *time.Time {
	if IsSentinel(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := DateOnlyUTC(t)
		return &d
	}
	return nil
}

// DateOnlyUTC drops the clock part of t after converting it to UTC.
func DateOnlyUTC(t time.Time) time.Time {
	u := t.UTC()
	y, m, d := u.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Boolean coerces the accepted truthy representations: boolean true, the
// number 1, the string "1" and case-insensitive "true". Everything else,
// including sentinels, is false.
func Boolean(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case int:
		return b == 1
	case int64:
		return b == 1
	case float64:
		return b == 1
	case json.Number:
		return b.String() == "1"
	case string:
		s := strings.TrimSpace(b)
		return s == "1" || strings.EqualFold(s, "true")
	case *string:
		if b == nil {
			return false
		}
		return Boolean(*b)
	default:
		return false
	}
}

// String trims raw and collapses sentinels to nil.
func String(raw string) *string {
	if IsSentinel(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	return &s
}
