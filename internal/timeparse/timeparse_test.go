package timeparse

import (
	"testing"
	"time"
)

func TestParseFullDateTime(t *testing.T) {
	cases := []string{
		"2025.03.16 12:34",
		"2025-03-16 12:34",
		"2025.03.16 12:34:00",
		"2025-03-16 12:34:00",
	}
	for _, raw := range cases {
		got, ok := Parse(raw, 2025)
		if !ok {
			t.Errorf("Parse(%q) failed", raw)
			continue
		}
		if want := "2025-03-16T12:34:00+09:00"; Format(got) != want {
			t.Errorf("Parse(%q) = %s, want %s", raw, Format(got), want)
		}
	}
}

func TestParseMonthDayUsesReferenceYear(t *testing.T) {
	got, ok := Parse("03-16 12:34", 2025)
	if !ok {
		t.Fatal("month-day form should parse")
	}
	if want := "2025-03-16T12:34:00+09:00"; Format(got) != want {
		t.Errorf("got %s, want %s", Format(got), want)
	}
}

func TestParseDateOnlyDefaultsMidnight(t *testing.T) {
	for _, raw := range []string{"2025.03.16", "2025-03-16", "2025년 03월 16일"} {
		got, ok := Parse(raw, 2025)
		if !ok {
			t.Errorf("Parse(%q) failed", raw)
			continue
		}
		if want := "2025-03-16T00:00:00+09:00"; Format(got) != want {
			t.Errorf("Parse(%q) = %s, want %s", raw, Format(got), want)
		}
	}
}

func TestParseDaumDottedSeconds(t *testing.T) {
	got, ok := Parse("2025.03.16. 12:34:56", 2025)
	if !ok {
		t.Fatal("dotted full form should parse")
	}
	if want := "2025-03-16T12:34:56+09:00"; Format(got) != want {
		t.Errorf("got %s, want %s", Format(got), want)
	}
}

func TestParseGarbage(t *testing.T) {
	for _, raw := range []string{"garbage", "", "  ", "어제", "13:99"} {
		if _, ok := Parse(raw, 2025); ok {
			t.Errorf("Parse(%q) should fail", raw)
		}
	}
}

func TestFormatConvertsToKST(t *testing.T) {
	utc := time.Date(2025, 3, 16, 0, 12, 0, 0, time.UTC)
	if want := "2025-03-16T09:12:00+09:00"; Format(utc) != want {
		t.Errorf("got %s, want %s", Format(utc), want)
	}
}

func TestDateLabel(t *testing.T) {
	// 2025-03-16 is a Sunday.
	ts, ok := Parse("2025-03-16 09:12", 2025)
	if !ok {
		t.Fatal("parse failed")
	}
	if want := "2025년 03월 16일 일요일"; DateLabel(ts) != want {
		t.Errorf("got %s, want %s", DateLabel(ts), want)
	}
}

func TestDateLabelBucketsByKSTDay(t *testing.T) {
	// 2025-03-15 23:30 UTC is already 2025-03-16 in KST.
	utc := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)
	if want := "2025년 03월 16일 일요일"; DateLabel(utc) != want {
		t.Errorf("got %s, want %s", DateLabel(utc), want)
	}
}
