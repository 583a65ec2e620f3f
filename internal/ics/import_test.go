package ics

import (
	"fmt"
	"testing"

	"github.com/labplanner/backend/internal/models"
)

func importSnapshot() models.Snapshot {
	snap := models.SeedSnapshot()
	snap.Personnel = []models.Personnel{
		{ID: "p1", Name: "Maria Rossi", Initials: "MR", Keywords: "rossi"},
		{ID: "p2", Name: "Gianni Verdi", Initials: "GV"},
	}
	snap.CampaignCategories = []models.CampaignCategory{
		{ID: "c1", Name: "Acque", Keywords: "acqua, pozzo"},
		{ID: "c2", Name: "Suoli", Keywords: "terreno"},
	}
	return snap
}

func importIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("imp_%d", n)
	}
}

func TestImportAbsencesSplitsMatchedFromUnmatched(t *testing.T) {
	snap := importSnapshot()
	events := []Event{
		{Summary: "[MR] Ferie estive", StartDate: "2024-08-05", EndDate: "2024-08-09"},
		{Summary: "Trasferta sconosciuta", StartDate: "2024-08-12", EndDate: "2024-08-12"},
	}

	snap, res := ImportAbsences(snap, events, importIDs())

	if len(res.Committed) != 1 {
		t.Fatalf("committed = %d, want 1", len(res.Committed))
	}
	a := res.Committed[0]
	if a.PersonnelID != "p1" {
		t.Fatalf("personnelId = %q, want p1", a.PersonnelID)
	}
	if a.TypeID != models.AbsenceTypeVacation {
		t.Fatalf("typeId = %q, want %q", a.TypeID, models.AbsenceTypeVacation)
	}
	if a.Note != "[MR] Ferie estive" {
		t.Fatalf("note = %q, want original summary", a.Note)
	}
	if a.StartDate != "2024-08-05" || a.EndDate != "2024-08-09" {
		t.Fatalf("dates = %s..%s", a.StartDate, a.EndDate)
	}

	if len(res.Unprocessed) != 1 {
		t.Fatalf("unprocessed = %d, want 1", len(res.Unprocessed))
	}
	u := res.Unprocessed[0]
	if u.FailureReason != FailureNoPersonnelMatch {
		t.Fatalf("failureReason = %q", u.FailureReason)
	}
	if u.Summary != "Trasferta sconosciuta" {
		t.Fatalf("summary = %q", u.Summary)
	}

	if len(snap.Absences) != 1 || len(snap.UnprocessedAbsences) != 1 {
		t.Fatalf("snapshot got %d absences, %d unprocessed",
			len(snap.Absences), len(snap.UnprocessedAbsences))
	}
}

func TestReprocessCommitsAfterPersonnelCorrection(t *testing.T) {
	snap := importSnapshot()
	events := []Event{
		{Summary: "Ferie LB", StartDate: "2024-09-02", EndDate: "2024-09-06"},
	}
	snap, _ = ImportAbsences(snap, events, importIDs())
	if len(snap.UnprocessedAbsences) != 1 {
		t.Fatalf("setup: unprocessed = %d", len(snap.UnprocessedAbsences))
	}

	snap.Personnel = append(snap.Personnel, models.Personnel{
		ID: "p3", Name: "Luca Bianchi", Initials: "LB",
	})

	snap, res := Reprocess(snap, importIDs())
	if len(res.Committed) != 1 {
		t.Fatalf("committed = %d, want 1", len(res.Committed))
	}
	if res.Committed[0].PersonnelID != "p3" {
		t.Fatalf("personnelId = %q, want p3", res.Committed[0].PersonnelID)
	}
	if len(snap.UnprocessedAbsences) != 0 {
		t.Fatalf("unprocessed queue = %d, want empty", len(snap.UnprocessedAbsences))
	}
}

func TestReprocessTwiceCommitsNothingSecondRun(t *testing.T) {
	snap := importSnapshot()
	events := []Event{
		{Summary: "Congresso senza sigla", StartDate: "2024-09-09", EndDate: "2024-09-10"},
		{Summary: "Altro evento ignoto", StartDate: "2024-09-11", EndDate: "2024-09-11"},
	}
	snap, _ = ImportAbsences(snap, events, importIDs())

	snap, first := Reprocess(snap, importIDs())
	if len(first.Committed) != 0 {
		t.Fatalf("first run committed %d", len(first.Committed))
	}
	snap, second := Reprocess(snap, importIDs())
	if len(second.Committed) != 0 {
		t.Fatalf("second run committed %d", len(second.Committed))
	}
	if len(snap.UnprocessedAbsences) != 2 {
		t.Fatalf("queue = %d, want 2 preserved", len(snap.UnprocessedAbsences))
	}
}

func TestImportCampaignsResolvesCategoryAndManager(t *testing.T) {
	snap := importSnapshot()
	events := []Event{
		{Summary: "Campagna acqua potabile Rossi", StartDate: "2024-03-04", EndDate: "2024-03-08"},
	}

	snap, created := ImportCampaigns(snap, events, importIDs())
	if len(created) != 1 {
		t.Fatalf("created = %d, want 1", len(created))
	}
	c := created[0]
	if c.CategoryID != "c1" {
		t.Fatalf("categoryId = %q, want c1", c.CategoryID)
	}
	if c.ManagerID != "p1" {
		t.Fatalf("managerId = %q, want p1", c.ManagerID)
	}
	// 2024-03-08 is a Friday; ten working days later is 2024-03-22.
	if c.DeliveryDate != "2024-03-22" {
		t.Fatalf("deliveryDate = %q, want 2024-03-22", c.DeliveryDate)
	}
	if len(snap.Campaigns) != 1 {
		t.Fatalf("snapshot campaigns = %d", len(snap.Campaigns))
	}
}

func TestImportCampaignsLeavesUnmatchedBlank(t *testing.T) {
	snap := importSnapshot()
	events := []Event{
		{Summary: "Evento generico", StartDate: "2024-04-01", EndDate: "2024-04-01"},
	}

	_, created := ImportCampaigns(snap, events, importIDs())
	if created[0].CategoryID != "" {
		t.Fatalf("categoryId = %q, want blank", created[0].CategoryID)
	}
	if created[0].ManagerID != "" {
		t.Fatalf("managerId = %q, want blank", created[0].ManagerID)
	}
	if created[0].Name != "Evento generico" {
		t.Fatalf("name = %q", created[0].Name)
	}
}
