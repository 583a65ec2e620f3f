package service

import (
	"testing"
	"time"

	"github.com/labplanner/backend/internal/models"
)

// 2024-01-08 is a Monday.
var monday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func testSnapshot() models.Snapshot {
	snap := models.SeedSnapshot()
	snap.Personnel = []models.Personnel{
		{
			ID:       "p1",
			Name:     "Maria Rossi",
			Initials: "MR",
			FixedAbsences: models.FixedAbsences{
				0: {models.SlotMorning: models.AbsenceTypeRemote},
			},
		},
		{ID: "p2", Name: "Gianni Verdi", Initials: "GV"},
	}
	return snap
}

func TestResolveStatusFree(t *testing.T) {
	snap := testSnapshot()
	st := ResolveStatus(snap, "p2", monday, models.SlotMorning)
	if st.Kind != StatusFree {
		t.Fatalf("expected free, got %+v", st)
	}
}

func TestResolveStatusFixedAbsence(t *testing.T) {
	snap := testSnapshot()
	st := ResolveStatus(snap, "p1", monday, models.SlotMorning)
	if st.Kind != StatusAbsence {
		t.Fatalf("expected absence, got %+v", st)
	}
	if st.AbsenceType == nil || st.AbsenceType.ID != models.AbsenceTypeRemote {
		t.Fatalf("expected fixed remote absence, got %+v", st.AbsenceType)
	}

	// Same weekday, other slot: the fixed pattern only covers the morning.
	st = ResolveStatus(snap, "p1", monday, models.SlotAfternoon)
	if st.Kind != StatusFree {
		t.Fatalf("expected free afternoon, got %+v", st)
	}
}

func TestResolveStatusAdHocBeatsFixed(t *testing.T) {
	snap := testSnapshot()
	snap.Absences = []models.Absence{
		{ID: "a1", PersonnelID: "p1", StartDate: "2024-01-08", EndDate: "2024-01-10", TypeID: models.AbsenceTypeVacation},
	}
	st := ResolveStatus(snap, "p1", monday, models.SlotMorning)
	if st.Kind != StatusAbsence || st.AbsenceType == nil || st.AbsenceType.ID != models.AbsenceTypeVacation {
		t.Fatalf("ad-hoc absence must beat the fixed pattern, got %+v", st)
	}
}

func TestResolveStatusOverridePresentBeatsAll(t *testing.T) {
	snap := testSnapshot()
	snap.Absences = []models.Absence{
		{ID: "a1", PersonnelID: "p1", StartDate: "2024-01-08", EndDate: "2024-01-10", TypeID: models.AbsenceTypeVacation},
	}
	key := models.OverrideKey{PersonnelID: "p1", Date: "2024-01-08", Slot: models.SlotMorning}
	snap.StatusOverrides = map[string]string{key.String(): models.OverridePresent}

	st := ResolveStatus(snap, "p1", monday, models.SlotMorning)
	if st.Kind != StatusOverridePresent {
		t.Fatalf("present override must beat both absence tiers, got %+v", st)
	}
}

func TestResolveStatusOverrideWithType(t *testing.T) {
	snap := testSnapshot()
	key := models.OverrideKey{PersonnelID: "p2", Date: "2024-01-08", Slot: models.SlotAfternoon}
	snap.StatusOverrides = map[string]string{key.String(): models.AbsenceTypeSick}

	st := ResolveStatus(snap, "p2", monday, models.SlotAfternoon)
	if st.Kind != StatusAbsence || st.AbsenceType == nil || st.AbsenceType.ID != models.AbsenceTypeSick {
		t.Fatalf("expected sick override, got %+v", st)
	}
}

func TestResolveStatusStaleTypeIDs(t *testing.T) {
	snap := testSnapshot()
	key := models.OverrideKey{PersonnelID: "p2", Date: "2024-01-08", Slot: models.SlotMorning}
	snap.StatusOverrides = map[string]string{key.String(): "deleted_type"}
	snap.Absences = []models.Absence{
		{ID: "a1", PersonnelID: "p2", StartDate: "2024-01-08", EndDate: "2024-01-08", TypeID: "also_deleted"},
	}

	// Stale references at every tier resolve to free, never an error.
	st := ResolveStatus(snap, "p2", monday, models.SlotMorning)
	if st.Kind != StatusFree {
		t.Fatalf("stale type ids must resolve to free, got %+v", st)
	}
}

func TestResolveStatusWeekendIgnoresFixed(t *testing.T) {
	snap := testSnapshot()
	saturday := monday.AddDate(0, 0, 5)
	st := ResolveStatus(snap, "p1", saturday, models.SlotMorning)
	if st.Kind != StatusFree {
		t.Fatalf("weekend must not match the fixed-absence table, got %+v", st)
	}
}

func TestResolveStatusAbsenceRangeBounds(t *testing.T) {
	snap := testSnapshot()
	snap.Absences = []models.Absence{
		{ID: "a1", PersonnelID: "p2", StartDate: "2024-01-09", EndDate: "2024-01-10", TypeID: models.AbsenceTypeSick},
	}
	if st := ResolveStatus(snap, "p2", monday, models.SlotMorning); st.Kind != StatusFree {
		t.Fatalf("day before range start must be free, got %+v", st)
	}
	if st := ResolveStatus(snap, "p2", monday.AddDate(0, 0, 2), models.SlotMorning); st.Kind != StatusAbsence {
		t.Fatalf("inclusive end date must still match, got %+v", st)
	}
}
