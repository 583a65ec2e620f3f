// Package calendar holds the ISO week and working-day arithmetic the
// planner grid is built on. All functions are pure; dates cross package
// boundaries as zero-padded "YYYY-MM-DD" strings so that string order
// equals chronological order.
package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// FormatDate renders the calendar date of t. Every lookup and range
// comparison in the planner uses this exact form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a "YYYY-MM-DD" string into a UTC-midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ISOWeek returns the ISO-8601 week number of t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOWeekYear returns the ISO-8601 week-numbering year of t, which differs
// from the calendar year around year boundaries (Dec 31 can belong to week
// 1 of the next year).
func ISOWeekYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// WeekStart returns the Monday of the given ISO week. January 4th is
// always inside week 1, so the Monday of its week anchors the year.
func WeekStart(isoYear, week int) time.Time {
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -WeekdayIndex(jan4))
	return monday.AddDate(0, 0, (week-1)*7)
}

// WeekDates returns the five weekday date strings (Monday..Friday) of the
// given ISO week.
func WeekDates(isoYear, week int) []string {
	start := WeekStart(isoYear, week)
	out := make([]string, 5)
	for i := 0; i < 5; i++ {
		out[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return out
}

// WeekKey is the weekly-note key for the given ISO week, e.g. "2024-W05".
func WeekKey(isoYear, week int) string {
	return fmt.Sprintf("%d-W%02d", isoYear, week)
}

// WeekdayIndex maps t to the Monday-based weekday index: 0=Monday..6=Sunday.
// Indexes 5 and 6 fall outside the fixed-absence table.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddWorkingDays advances a date string by n working days, skipping
// Saturdays and Sundays. n must be non-negative; the count only moves
// forward.
func AddWorkingDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	for added := 0; added < n; {
		t = t.AddDate(0, 0, 1)
		if WeekdayIndex(t) < 5 {
			added++
		}
	}
	return FormatDate(t), nil
}

// CountWorkingDays counts weekdays in the inclusive [start, end] range.
// An inverted range counts zero.
func CountWorkingDays(startStr, endStr string) (int, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return 0, err
	}
	count := 0
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		if WeekdayIndex(t) < 5 {
			count++
		}
	}
	return count, nil
}
