package service

import (
	"fmt"
	"sort"
	"testing"

	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestCaptureTemplatePositions(t *testing.T) {
	weekDates := calendar.WeekDates(2024, 2) // 2024-01-08 .. 2024-01-12
	bookings := []models.Booking{
		{ID: "b1", InstrumentID: "i1", PersonnelID: "p1", Date: "2024-01-08", Slot: models.SlotMorning, Note: "cal"},
		{ID: "b2", InstrumentID: "i2", PersonnelID: "p2", Date: "2024-01-10", Slot: models.SlotAfternoon},
		// Outside the captured week: ignored.
		{ID: "b3", InstrumentID: "i1", PersonnelID: "p1", Date: "2024-01-15", Slot: models.SlotMorning},
	}

	tpl := CaptureTemplate(bookings, weekDates, "standard")
	if tpl.Name != "standard" {
		t.Fatalf("unexpected name %q", tpl.Name)
	}
	if len(tpl.PositionalBookings) != 2 {
		t.Fatalf("expected 2 positional entries, got %d", len(tpl.PositionalBookings))
	}
	slot, ok := tpl.PositionalBookings["i1-0-M"]
	if !ok || slot.PersonnelID != "p1" || slot.Note != "cal" {
		t.Fatalf("unexpected entry for i1-0-M: %+v ok=%v", slot, ok)
	}
	if _, ok := tpl.PositionalBookings["i2-2-P"]; !ok {
		t.Fatalf("missing entry for i2-2-P: %+v", tpl.PositionalBookings)
	}
}

func TestApplyTemplateReplacesTargetWeek(t *testing.T) {
	tpl := models.Template{
		Name: "standard",
		PositionalBookings: map[string]models.TemplateSlot{
			"i1-0-M": {PersonnelID: "p1"},
			"i1-4-P": {PersonnelID: "p2", Note: "teardown"},
		},
	}
	existing := []models.Booking{
		// Inside the target week: wiped by the replay.
		{ID: "old1", InstrumentID: "i9", PersonnelID: "p9", Date: "2024-01-09", Slot: models.SlotMorning},
		// Outside: kept.
		{ID: "old2", InstrumentID: "i9", PersonnelID: "p9", Date: "2024-01-15", Slot: models.SlotMorning},
	}

	out := ApplyTemplate(existing, tpl, calendar.WeekStart(2024, 2), sequentialIDs("n"))
	if len(out) != 3 {
		t.Fatalf("expected 3 bookings, got %d: %+v", len(out), out)
	}
	for _, b := range out {
		if b.ID == "old1" {
			t.Fatalf("target-week booking must be removed")
		}
	}
	var friday *models.Booking
	for i := range out {
		if out[i].Date == "2024-01-12" {
			friday = &out[i]
		}
	}
	if friday == nil || friday.PersonnelID != "p2" || friday.Slot != models.SlotAfternoon || friday.Note != "teardown" {
		t.Fatalf("unexpected friday booking: %+v", friday)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	weekDates := calendar.WeekDates(2024, 2)
	original := []models.Booking{
		{ID: "b1", InstrumentID: "i1", PersonnelID: "p1", Date: "2024-01-08", Slot: models.SlotMorning},
		{ID: "b2", InstrumentID: "i1", PersonnelID: "p2", Date: "2024-01-08", Slot: models.SlotAfternoon},
		{ID: "b3", InstrumentID: "i2", PersonnelID: "p1", Date: "2024-01-11", Slot: models.SlotMorning, Note: "x"},
	}

	tpl := CaptureTemplate(original, weekDates, "rt")
	replayed := ApplyTemplate(original, tpl, calendar.WeekStart(2024, 2), sequentialIDs("n"))

	// Same (instrument, date, slot, personnel) tuples, modulo ids.
	key := func(b models.Booking) string {
		return fmt.Sprintf("%s|%s|%s|%s", b.InstrumentID, b.Date, b.Slot, b.PersonnelID)
	}
	var want, got []string
	for _, b := range original {
		want = append(want, key(b))
	}
	for _, b := range replayed {
		got = append(got, key(b))
	}
	sort.Strings(want)
	sort.Strings(got)
	if len(want) != len(got) {
		t.Fatalf("tuple count mismatch: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("tuple mismatch at %d: %s vs %s", i, want[i], got[i])
		}
	}
}

func TestApplyTemplateSkipsMalformedKeys(t *testing.T) {
	tpl := models.Template{
		Name: "broken",
		PositionalBookings: map[string]models.TemplateSlot{
			"i1-0-M":  {PersonnelID: "p1"},
			"garbage": {PersonnelID: "p2"},
		},
	}
	out := ApplyTemplate(nil, tpl, calendar.WeekStart(2024, 2), sequentialIDs("n"))
	if len(out) != 1 {
		t.Fatalf("malformed keys must be skipped, got %d bookings", len(out))
	}
}
