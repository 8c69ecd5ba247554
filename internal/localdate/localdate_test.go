package localdate

import (
	"testing"
	"time"
)

func TestFromUTCAcrossMidnightUTC(t *testing.T) {
	// 04:30 UTC on Jan 11 is 11:30 PM EST on Jan 10.
	ts := time.Date(2025, 1, 11, 4, 30, 0, 0, time.UTC)
	if got := FromUTC(ts); got != "2025-01-10" {
		t.Errorf("FromUTC = %q, want 2025-01-10", got)
	}
}

func TestFromUTCDuringDST(t *testing.T) {
	// 03:30 UTC on Jul 11 is 11:30 PM EDT on Jul 10.
	ts := time.Date(2025, 7, 11, 3, 30, 0, 0, time.UTC)
	if got := FromUTC(ts); got != "2025-07-10" {
		t.Errorf("FromUTC = %q, want 2025-07-10", got)
	}
}

func TestMonthFromUTC(t *testing.T) {
	// 02:00 UTC on Feb 1 is still Jan 31 locally.
	ts := time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC)
	if got := MonthFromUTC(ts); got != "2025-01" {
		t.Errorf("MonthFromUTC = %q, want 2025-01", got)
	}
}

func TestParseInputRoundTrip(t *testing.T) {
	ts, err := ParseInput("2025-01-10T23:30")
	if err != nil {
		t.Fatalf("ParseInput: %v", err)
	}
	if ts.Format(time.RFC3339) != "2025-01-11T04:30:00Z" {
		t.Errorf("UTC instant = %s, want 2025-01-11T04:30:00Z", ts.Format(time.RFC3339))
	}
	if got := FromUTC(ts); got != "2025-01-10" {
		t.Errorf("round-trip local date = %q, want 2025-01-10", got)
	}
}

func TestParseInputRejectsGarbage(t *testing.T) {
	if _, err := ParseInput("not-a-date"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2025-01-10"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"2025-1-10", "01/10/2025", "2025-01", ""} {
		if err := ValidateDate(bad); err == nil {
			t.Errorf("ValidateDate(%q) accepted", bad)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth("2025-01"); err != nil {
		t.Errorf("valid month rejected: %v", err)
	}
	for _, bad := range []string{"2025", "2025-1", "2025-01-10"} {
		if err := ValidateMonth(bad); err == nil {
			t.Errorf("ValidateMonth(%q) accepted", bad)
		}
	}
}

func TestLastNDaysAscending(t *testing.T) {
	end := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	labels := LastNDays(7, end)
	if len(labels) != 7 {
		t.Fatalf("got %d labels, want 7", len(labels))
	}
	if labels[6] != "2025-03-15" {
		t.Errorf("last label = %q, want 2025-03-15", labels[6])
	}
	if labels[0] != "2025-03-09" {
		t.Errorf("first label = %q, want 2025-03-09", labels[0])
	}
	for i := 1; i < len(labels); i++ {
		if labels[i] <= labels[i-1] {
			t.Errorf("labels not ascending at %d: %q <= %q", i, labels[i], labels[i-1])
		}
	}
}
