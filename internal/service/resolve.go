package service

import (
	"time"

	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

type StatusKind string

const (
	StatusOverridePresent StatusKind = "override-present"
	StatusAbsence         StatusKind = "absence"
	StatusFree            StatusKind = "free"
)

// Status is the effective occupancy of one (person, date, slot) cell.
// AbsenceType is set only when Kind is StatusAbsence.
type Status struct {
	Kind        StatusKind          `json:"kind"`
	AbsenceType *models.AbsenceType `json:"absenceType,omitempty"`
}

// ResolveStatus layers the three absence sources for one cell. The order
// is the core business rule, first match wins:
//
//  1. a status override pinned to this exact cell ("present" beats even a
//     computed absence; any other value is an absence type id),
//  2. the first ad-hoc absence range covering the date,
//  3. the fixed weekly absence for the date's weekday,
//  4. otherwise free.
//
// A stale absence-type id at any tier resolves to no match instead of an
// error, so the grid never breaks on references to deleted types.
func ResolveStatus(snap models.Snapshot, personnelID string, date time.Time, slot models.Slot) Status {
	dateStr := calendar.FormatDate(date)

	key := models.OverrideKey{PersonnelID: personnelID, Date: dateStr, Slot: slot}
	if value, ok := snap.StatusOverrides[key.String()]; ok {
		if value == models.OverridePresent {
			return Status{Kind: StatusOverridePresent}
		}
		if t := snap.FindAbsenceType(value); t != nil {
			return Status{Kind: StatusAbsence, AbsenceType: t}
		}
		// Stale override: fall through to the computed tiers.
	}

	for _, a := range snap.Absences {
		if a.PersonnelID != personnelID {
			continue
		}
		if a.StartDate <= dateStr && dateStr <= a.EndDate {
			if t := snap.FindAbsenceType(a.TypeID); t != nil {
				return Status{Kind: StatusAbsence, AbsenceType: t}
			}
		}
	}

	if p := snap.FindPersonnel(personnelID); p != nil {
		day := calendar.WeekdayIndex(date)
		if day < 5 {
			if slots, ok := p.FixedAbsences[day]; ok {
				if typeID, ok := slots[slot]; ok && typeID != "" {
					if t := snap.FindAbsenceType(typeID); t != nil {
						return Status{Kind: StatusAbsence, AbsenceType: t}
					}
				}
			}
		}
	}

	return Status{Kind: StatusFree}
}
