// Package localdate derives the calendar date used as the grouping key for
// the one-check-in-per-day rule. All sites run on America/New_York time;
// if tzdata is unavailable the derivation falls back to UTC.
package localdate

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

const (
	// Layout is the stored local_date format.
	Layout = "2006-01-02"
	// MonthLayout is the key format for monthly rollups.
	MonthLayout = "2006-01"
	// InputLayout matches the datetime-local form control used by the
	// admin add/edit forms.
	InputLayout = "2006-01-02T15:04"
)

var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Location returns the site timezone (UTC when tzdata failed to load).
func Location() *time.Location { return location }

// FromUTC converts a UTC instant to its local calendar date string.
func FromUTC(t time.Time) string {
	return t.In(location).Format(Layout)
}

// MonthFromUTC converts a UTC instant to its local YYYY-MM key.
func MonthFromUTC(t time.Time) string {
	return t.In(location).Format(MonthLayout)
}

// Today returns the current local calendar date.
func Today() string {
	return FromUTC(time.Now().UTC())
}

// ParseInput interprets an admin-supplied datetime-local value as local wall
// time and returns the equivalent UTC instant.
func ParseInput(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InputLayout, s, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ValidateDate checks a YYYY-MM-DD string.
func ValidateDate(s string) error {
	if _, err := time.Parse(Layout, s); err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	return nil
}

// ValidateMonth checks a YYYY-MM string.
func ValidateMonth(s string) error {
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return fmt.Errorf("invalid month %q: %w", s, err)
	}
	return nil
}

// LastNDays returns n local date labels ending at the local date of end,
// in ascending order.
func LastNDays(n int, end time.Time) []string {
	day := end.In(location)
	labels := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		labels[i] = day.Format(Layout)
		day = day.AddDate(0, 0, -1)
	}
	return labels
}
