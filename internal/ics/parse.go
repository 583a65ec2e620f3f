// Package ics implements the calendar import pipeline: a lenient RFC 5545
// subset parser, the personnel/category matching heuristics, and the
// absence/campaign reconciliation that splits events into committed and
// unprocessed sets.
package ics

import (
	"strings"
	"time"
)

// Event is the normalized representation of one VEVENT. Dates are
// inclusive "YYYY-MM-DD" strings.
type Event struct {
	Summary   string `json:"summary"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Parse extracts events from raw ICS text. Parsing is deliberately
// lenient: malformed or partial event blocks are dropped, never reported
// as errors, because external Outlook/Google exports are not trustworthy.
// Cancelled events are skipped.
func Parse(text string) []Event {
	text = unfold(text)

	var events []Event
	blocks := strings.Split(text, "BEGIN:VEVENT")
	for _, block := range blocks[1:] {
		if strings.Contains(block, "STATUS:CANCELLED") {
			continue
		}
		ev, ok := parseBlock(block)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// unfold joins folded lines: a line break followed by a single space or
// tab continues the previous line.
func unfold(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n ", "")
	text = strings.ReplaceAll(text, "\n\t", "")
	return text
}

func parseBlock(block string) (Event, bool) {
	var ev Event
	var startRaw, endRaw string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "SUMMARY"):
			ev.Summary = propertyValue(line)
		case strings.HasPrefix(line, "DTSTART"):
			startRaw = line
		case strings.HasPrefix(line, "DTEND"):
			endRaw = line
		}
	}

	if ev.Summary == "" || startRaw == "" {
		return Event{}, false
	}
	start := extractDate(propertyValue(startRaw))
	if start == "" {
		return Event{}, false
	}
	ev.StartDate = start

	if endRaw == "" {
		ev.EndDate = start
		return ev, true
	}
	end := extractDate(propertyValue(endRaw))
	if end == "" {
		return Event{}, false
	}

	// An all-day DTEND is an exclusive boundary; convert it to the
	// inclusive end date the planner stores.
	if isDateOnly(startRaw) && end > start {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return Event{}, false
		}
		end = t.AddDate(0, 0, -1).Format("2006-01-02")
	}
	ev.EndDate = end
	return ev, true
}

// propertyValue strips the property name and any parameters: everything up
// to and including the first colon.
func propertyValue(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

// extractDate finds the last run of 8 contiguous digits in the value and
// reinterprets it as YYYY-MM-DD. This tolerates both 20240101 and
// 20240101T090000Z-style values as well as leading TZID noise.
func extractDate(value string) string {
	last := ""
	for i := 0; i < len(value); {
		if value[i] < '0' || value[i] > '9' {
			i++
			continue
		}
		runStart := i
		for i < len(value) && value[i] >= '0' && value[i] <= '9' {
			i++
		}
		runLen := i - runStart
		if runLen < 8 {
			continue
		}
		// Last non-overlapping 8-digit token inside the run.
		offset := runStart + 8*(runLen/8-1)
		last = value[offset : offset+8]
	}
	if last == "" {
		return ""
	}
	return last[0:4] + "-" + last[4:6] + "-" + last[6:8]
}

// isDateOnly reports whether a DTSTART/DTEND line carries a date (not a
// date-time) value.
func isDateOnly(line string) bool {
	if strings.Contains(line, "VALUE=DATE") && !strings.Contains(line, "VALUE=DATE-TIME") {
		return true
	}
	return !strings.Contains(propertyValue(line), "T")
}
