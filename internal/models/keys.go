package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionKey addresses one half-day cell of a template by instrument,
// weekday offset (0=Monday..4=Friday) and slot. The serialized form is
// "instrumentId-day-slot"; parsing splits from the right so instrument ids
// containing hyphens round-trip correctly.
type PositionKey struct {
	InstrumentID string
	Day          int
	Slot         Slot
}

func (k PositionKey) String() string {
	return fmt.Sprintf("%s-%d-%s", k.InstrumentID, k.Day, k.Slot)
}

func ParsePositionKey(s string) (PositionKey, error) {
	lastDash := strings.LastIndex(s, "-")
	if lastDash <= 0 {
		return PositionKey{}, fmt.Errorf("malformed position key %q", s)
	}
	slot := Slot(s[lastDash+1:])
	rest := s[:lastDash]
	midDash := strings.LastIndex(rest, "-")
	if midDash <= 0 {
		return PositionKey{}, fmt.Errorf("malformed position key %q", s)
	}
	day, err := strconv.Atoi(rest[midDash+1:])
	if err != nil {
		return PositionKey{}, fmt.Errorf("malformed position key %q: %w", s, err)
	}
	if day < 0 || day > 4 {
		return PositionKey{}, fmt.Errorf("position key %q: day %d out of range", s, day)
	}
	if !ValidSlot(slot) {
		return PositionKey{}, fmt.Errorf("position key %q: unknown slot %q", s, slot)
	}
	return PositionKey{InstrumentID: rest[:midDash], Day: day, Slot: slot}, nil
}

// OverrideKey pins a status override to one exact (person, date, slot)
// cell. Serialized as "personnelId-YYYY-MM-DD-slot"; parsing again splits
// from the right (slot, then the three date segments).
type OverrideKey struct {
	PersonnelID string
	Date        string
	Slot        Slot
}

func (k OverrideKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.PersonnelID, k.Date, k.Slot)
}

func ParseOverrideKey(s string) (OverrideKey, error) {
	parts := strings.Split(s, "-")
	// person id (>=1 segment) + 3 date segments + slot
	if len(parts) < 5 {
		return OverrideKey{}, fmt.Errorf("malformed override key %q", s)
	}
	slot := Slot(parts[len(parts)-1])
	if !ValidSlot(slot) {
		return OverrideKey{}, fmt.Errorf("override key %q: unknown slot %q", s, slot)
	}
	date := strings.Join(parts[len(parts)-4:len(parts)-1], "-")
	if len(date) != 10 {
		return OverrideKey{}, fmt.Errorf("override key %q: malformed date %q", s, date)
	}
	person := strings.Join(parts[:len(parts)-4], "-")
	return OverrideKey{PersonnelID: person, Date: date, Slot: slot}, nil
}
