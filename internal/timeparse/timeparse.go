// Package timeparse normalizes the raw timestamp strings found on news
// listings into fixed-offset KST timestamps.
package timeparse

import (
	"fmt"
	"strings"
	"time"
)

// KST is the fixed +09:00 zone every archive timestamp is expressed in.
var KST = time.FixedZone("KST", 9*60*60)

// layouts is the ordered list of accepted formats. Date-only layouts default
// the time-of-day to 00:00:00.
var layouts = []string{
	"2006.01.02 15:04:05",
	"2006.01.02. 15:04:05",
	"2006-01-02 15:04:05",
	"2006.01.02 15:04",
	"2006-01-02 15:04",
	"2006.01.02",
	"2006-01-02",
	"2006년 01월 02일",
}

// monthDayLayout lacks a year; Parse substitutes the reference year.
const monthDayLayout = "2006-01-02 15:04"

// Parse attempts raw against each accepted format in order and returns the
// parsed KST time. referenceYear fills in month-day-only strings such as
// "03-16 12:34". ok is false when no format matches; what happens then is
// the caller's policy.
func Parse(raw string, referenceYear int) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, KST); err == nil {
			return t, true
		}
	}

	// Month-day-only, e.g. "03-16 12:34".
	if t, err := time.ParseInLocation(monthDayLayout, fmt.Sprintf("%04d-%s", referenceYear, s), KST); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// Format renders t as an ISO-8601 timestamp with the explicit +09:00 offset,
// e.g. "2025-03-16T12:34:00+09:00".
func Format(t time.Time) string {
	return t.In(KST).Format("2006-01-02T15:04:05Z07:00")
}

var koreanWeekdays = map[time.Weekday]string{
	time.Sunday:    "일요일",
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
}

// DateLabel renders the localized calendar-day label a timestamp buckets
// under, e.g. "2025년 03월 16일 일요일".
func DateLabel(t time.Time) string {
	t = t.In(KST)
	return fmt.Sprintf("%04d년 %02d월 %02d일 %s", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}
