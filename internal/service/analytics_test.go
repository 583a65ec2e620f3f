package service

import (
	"testing"

	"github.com/labplanner/backend/internal/models"
)

func analyticsSnapshot() models.Snapshot {
	snap := models.SeedSnapshot()
	snap.Instruments = []models.Instrument{
		{ID: "i1", Name: "HPLC", Weight: 2},
		{ID: "i2", Name: "Scale"}, // weight defaults to 1
	}
	snap.Personnel = []models.Personnel{
		{ID: "p1", Name: "Maria Rossi", WorkPercentage: 50},
		{ID: "p2", Name: "Gianni Verdi"},
	}
	return snap
}

func TestWorkloadSumsWeightsAndScalesCapacity(t *testing.T) {
	snap := analyticsSnapshot()
	snap.Bookings = []models.Booking{
		{ID: "b1", InstrumentID: "i1", PersonnelID: "p1", Date: "2024-01-08", Slot: models.SlotMorning},
		{ID: "b2", InstrumentID: "i2", PersonnelID: "p1", Date: "2024-01-09", Slot: models.SlotAfternoon},
		// Orphaned instrument reference: counts with default weight.
		{ID: "b3", InstrumentID: "gone", PersonnelID: "p1", Date: "2024-01-10", Slot: models.SlotMorning},
		// Out of range.
		{ID: "b4", InstrumentID: "i1", PersonnelID: "p1", Date: "2024-02-01", Slot: models.SlotMorning},
	}

	report, err := Workload(snap, "p1", "2024-01-08", "2024-01-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Actual != 4 {
		t.Fatalf("expected actual 4, got %v", report.Actual)
	}
	// 5 working days x 8h x 50% = 20.
	if report.Capacity != 20 {
		t.Fatalf("expected capacity 20, got %v", report.Capacity)
	}
	if report.Percent != 20 {
		t.Fatalf("expected 20%%, got %v", report.Percent)
	}
	if report.Band != BandUnderutilized {
		t.Fatalf("expected underutilized, got %s", report.Band)
	}
}

func TestWorkloadBands(t *testing.T) {
	cases := []struct {
		percent float64
		band    string
	}{
		{110, BandOverloaded},
		{105, BandAtRisk},
		{91, BandAtRisk},
		{90, BandBalanced},
		{40, BandBalanced},
		{39.9, BandUnderutilized},
	}
	for _, tc := range cases {
		if got := workloadBand(tc.percent); got != tc.band {
			t.Fatalf("%v%%: expected %s, got %s", tc.percent, tc.band, got)
		}
	}
}

func TestDeliveryRate(t *testing.T) {
	yes, no := true, false
	snap := analyticsSnapshot()
	snap.Campaigns = []models.Campaign{
		{ID: "c1", ManagerID: "p1", EndDate: "2024-01-10", DeliveryMet: &yes},
		{ID: "c2", ManagerID: "p1", EndDate: "2024-01-11", DeliveryMet: &no},
		// Not yet evaluated: excluded.
		{ID: "c3", ManagerID: "p1", EndDate: "2024-01-12"},
		// Other manager.
		{ID: "c4", ManagerID: "p2", EndDate: "2024-01-12", DeliveryMet: &no},
		// Ends outside the period.
		{ID: "c5", ManagerID: "p1", EndDate: "2024-02-12", DeliveryMet: &yes},
	}

	report := DeliveryRate(snap, "p1", "2024-01-08", "2024-01-31")
	if report.Evaluated != 2 || report.Met != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.Rate != 50 {
		t.Fatalf("expected 50%%, got %v", report.Rate)
	}
}

func TestDeliveryRateDefaultsTo100(t *testing.T) {
	snap := analyticsSnapshot()
	report := DeliveryRate(snap, "p1", "2024-01-01", "2024-12-31")
	if report.Rate != 100 {
		t.Fatalf("expected default 100%%, got %v", report.Rate)
	}
}

func TestAbsenceSummaryClipsToPeriod(t *testing.T) {
	snap := analyticsSnapshot()
	snap.Absences = []models.Absence{
		// Overlaps the period start; clipped portion is Mon-Wed.
		{ID: "a1", PersonnelID: "p1", StartDate: "2024-01-03", EndDate: "2024-01-10", TypeID: models.AbsenceTypeVacation},
		// Entirely inside, spans a weekend: only weekdays count.
		{ID: "a2", PersonnelID: "p1", StartDate: "2024-01-12", EndDate: "2024-01-15", TypeID: models.AbsenceTypeSick},
		// Other person.
		{ID: "a3", PersonnelID: "p2", StartDate: "2024-01-08", EndDate: "2024-01-08", TypeID: models.AbsenceTypeSick},
		// Entirely outside the period.
		{ID: "a4", PersonnelID: "p1", StartDate: "2024-02-01", EndDate: "2024-02-02", TypeID: models.AbsenceTypeVacation},
	}

	got, err := AbsenceSummary(snap, "p1", "2024-01-08", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[models.AbsenceTypeVacation] != 3 {
		t.Fatalf("expected 3 vacation days, got %d", got[models.AbsenceTypeVacation])
	}
	if got[models.AbsenceTypeSick] != 2 {
		t.Fatalf("expected 2 sick days, got %d", got[models.AbsenceTypeSick])
	}
}
