package service

import (
	"github.com/labplanner/backend/internal/models"
)

// UpsertBooking replaces any existing booking with the same id, then
// appends. It also evicts any other booking occupying the same
// (instrument, date, slot) cell, so the one-booking-per-slot invariant for
// the instrument grid holds regardless of caller discipline.
func UpsertBooking(bookings []models.Booking, b models.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(bookings)+1)
	for _, existing := range bookings {
		if existing.ID == b.ID {
			continue
		}
		if existing.InstrumentID == b.InstrumentID && existing.Date == b.Date && existing.Slot == b.Slot {
			continue
		}
		out = append(out, existing)
	}
	return append(out, b)
}

func DeleteBooking(bookings []models.Booking, id string) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID == id {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FindBooking returns the single booking occupying an instrument cell, or
// nil.
func FindBooking(bookings []models.Booking, instrumentID, date string, slot models.Slot) *models.Booking {
	for i := range bookings {
		b := &bookings[i]
		if b.InstrumentID == instrumentID && b.Date == date && b.Slot == slot {
			return b
		}
	}
	return nil
}

// FindBookingsForPerson returns every booking a person holds in a cell.
// More than one is legal: a person can be double-booked across instruments,
// which the personnel view surfaces rather than prevents.
func FindBookingsForPerson(bookings []models.Booking, personnelID, date string, slot models.Slot) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.PersonnelID == personnelID && b.Date == date && b.Slot == slot {
			out = append(out, b)
		}
	}
	return out
}

// BookingsInRange filters bookings to an inclusive date-string range.
func BookingsInRange(bookings []models.Booking, startDate, endDate string) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if startDate <= b.Date && b.Date <= endDate {
			out = append(out, b)
		}
	}
	return out
}
