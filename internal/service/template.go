package service

import (
	"time"

	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

// IDGenerator mints opaque unique ids for bookings synthesized during
// template replay.
type IDGenerator func() string

// CaptureTemplate records every booking falling on one of the five
// weekDates into a position-addressed template. Positions are relative
// (instrument, weekday offset, slot), which is what lets the template be
// replayed onto any other week.
func CaptureTemplate(bookings []models.Booking, weekDates []string, name string) models.Template {
	dayByDate := make(map[string]int, len(weekDates))
	for i, d := range weekDates {
		dayByDate[d] = i
	}

	positional := map[string]models.TemplateSlot{}
	for _, b := range bookings {
		day, ok := dayByDate[b.Date]
		if !ok {
			continue
		}
		key := models.PositionKey{InstrumentID: b.InstrumentID, Day: day, Slot: b.Slot}
		positional[key.String()] = models.TemplateSlot{PersonnelID: b.PersonnelID, Note: b.Note}
	}

	return models.Template{Name: name, PositionalBookings: positional}
}

// ApplyTemplate replays a template onto the week starting at weekStart
// (a Monday). It is a full replace: every booking inside the target week
// is removed first, then each positional entry is synthesized into a fresh
// booking. Confirmation of the destructive replace is the caller's job.
func ApplyTemplate(bookings []models.Booking, tpl models.Template, weekStart time.Time, newID IDGenerator) []models.Booking {
	startStr := calendar.FormatDate(weekStart)
	endStr := calendar.FormatDate(calendar.AddDays(weekStart, 4))

	out := make([]models.Booking, 0, len(bookings)+len(tpl.PositionalBookings))
	for _, b := range bookings {
		if startStr <= b.Date && b.Date <= endStr {
			continue
		}
		out = append(out, b)
	}

	for rawKey, slot := range tpl.PositionalBookings {
		key, err := models.ParsePositionKey(rawKey)
		if err != nil {
			continue
		}
		out = append(out, models.Booking{
			ID:           newID(),
			InstrumentID: key.InstrumentID,
			PersonnelID:  slot.PersonnelID,
			Date:         calendar.FormatDate(calendar.AddDays(weekStart, key.Day)),
			Slot:         key.Slot,
			Note:         slot.Note,
		})
	}
	return out
}
