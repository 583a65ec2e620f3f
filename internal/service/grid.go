package service

import (
	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

// PersonCell is one half-day cell of the personnel view: the resolved
// occupancy status plus any bookings the person holds across instruments
// in that slot. When both apply, absence status takes rendering precedence
// over booking status; the bookings are still surfaced.
type PersonCell struct {
	Date     string           `json:"date"`
	Slot     models.Slot      `json:"slot"`
	Status   Status           `json:"status"`
	Bookings []models.Booking `json:"bookings,omitempty"`
}

type PersonRow struct {
	PersonnelID string       `json:"personnelId"`
	Cells       []PersonCell `json:"cells"`
}

// InstrumentCell is one half-day cell of the instrument view; at most one
// booking occupies it.
type InstrumentCell struct {
	Date    string          `json:"date"`
	Slot    models.Slot     `json:"slot"`
	Booking *models.Booking `json:"booking,omitempty"`
}

type InstrumentRow struct {
	InstrumentID string           `json:"instrumentId"`
	Missing      bool             `json:"missing,omitempty"`
	Cells        []InstrumentCell `json:"cells"`
}

type WeekGrid struct {
	ISOYear     int             `json:"isoYear"`
	Week        int             `json:"week"`
	Dates       []string        `json:"dates"`
	Note        string          `json:"note,omitempty"`
	Personnel   []PersonRow     `json:"personnel"`
	Instruments []InstrumentRow `json:"instruments"`
}

// BuildWeekGrid computes the full Monday-Friday morning/afternoon grid for
// one ISO week: per-person resolved statuses layered with their bookings,
// and per-instrument occupancy. Instruments referenced by bookings but
// since deleted still get a row, flagged missing, so their bookings stay
// visible.
func BuildWeekGrid(snap models.Snapshot, isoYear, week int) (WeekGrid, error) {
	dates := calendar.WeekDates(isoYear, week)
	slots := []models.Slot{models.SlotMorning, models.SlotAfternoon}

	grid := WeekGrid{
		ISOYear:     isoYear,
		Week:        week,
		Dates:       dates,
		Note:        snap.WeeklyNotes[calendar.WeekKey(isoYear, week)],
		Personnel:   []PersonRow{},
		Instruments: []InstrumentRow{},
	}

	for _, p := range snap.Personnel {
		row := PersonRow{PersonnelID: p.ID}
		for _, dateStr := range dates {
			date, err := calendar.ParseDate(dateStr)
			if err != nil {
				return WeekGrid{}, err
			}
			for _, slot := range slots {
				row.Cells = append(row.Cells, PersonCell{
					Date:     dateStr,
					Slot:     slot,
					Status:   ResolveStatus(snap, p.ID, date, slot),
					Bookings: FindBookingsForPerson(snap.Bookings, p.ID, dateStr, slot),
				})
			}
		}
		grid.Personnel = append(grid.Personnel, row)
	}

	instrumentIDs := make([]string, 0, len(snap.Instruments))
	seen := map[string]bool{}
	for _, inst := range snap.Instruments {
		instrumentIDs = append(instrumentIDs, inst.ID)
		seen[inst.ID] = true
	}
	for _, b := range BookingsInRange(snap.Bookings, dates[0], dates[len(dates)-1]) {
		if !seen[b.InstrumentID] {
			instrumentIDs = append(instrumentIDs, b.InstrumentID)
			seen[b.InstrumentID] = true
		}
	}

	for _, id := range instrumentIDs {
		row := InstrumentRow{InstrumentID: id, Missing: snap.FindInstrument(id) == nil}
		for _, dateStr := range dates {
			for _, slot := range slots {
				row.Cells = append(row.Cells, InstrumentCell{
					Date:    dateStr,
					Slot:    slot,
					Booking: FindBooking(snap.Bookings, id, dateStr, slot),
				})
			}
		}
		grid.Instruments = append(grid.Instruments, row)
	}

	return grid, nil
}
