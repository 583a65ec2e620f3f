package ics

import (
	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

// FailureNoPersonnelMatch is the fixed reason recorded on events that could
// not be matched to a person.
const FailureNoPersonnelMatch = "no matching personnel initials"

// Working days granted between a campaign's end and its derived delivery
// deadline.
const deliveryLeadDays = 10

// AbsenceImportResult reports how one import or reprocess run split its
// events.
type AbsenceImportResult struct {
	Committed   []models.Absence            `json:"committed"`
	Unprocessed []models.UnprocessedAbsence `json:"unprocessed"`
}

// ImportAbsences matches every event against personnel initials. Matched
// events become vacation absences with the original summary preserved as
// note; unmatched events join the retryable unprocessed queue. The updated
// snapshot and the split are both returned.
func ImportAbsences(snap models.Snapshot, events []Event, newID func() string) (models.Snapshot, AbsenceImportResult) {
	result := AbsenceImportResult{
		Committed:   []models.Absence{},
		Unprocessed: []models.UnprocessedAbsence{},
	}

	for _, ev := range events {
		person := MatchPersonnel(ev.Summary, snap.Personnel)
		if person == nil {
			u := models.UnprocessedAbsence{
				ID:            newID(),
				Summary:       ev.Summary,
				StartDate:     ev.StartDate,
				EndDate:       ev.EndDate,
				FailureReason: FailureNoPersonnelMatch,
			}
			result.Unprocessed = append(result.Unprocessed, u)
			continue
		}
		a := models.Absence{
			ID:          newID(),
			PersonnelID: person.ID,
			StartDate:   ev.StartDate,
			EndDate:     ev.EndDate,
			TypeID:      models.AbsenceTypeVacation,
			Note:        ev.Summary,
		}
		result.Committed = append(result.Committed, a)
	}

	snap.Absences = append(snap.Absences, result.Committed...)
	snap.UnprocessedAbsences = append(snap.UnprocessedAbsences, result.Unprocessed...)
	return snap, result
}

// Reprocess re-runs the personnel matcher over the unprocessed queue
// against the current (possibly corrected) personnel list. Safe to invoke
// repeatedly: with no personnel changes between runs the second run
// commits nothing.
func Reprocess(snap models.Snapshot, newID func() string) (models.Snapshot, AbsenceImportResult) {
	result := AbsenceImportResult{
		Committed:   []models.Absence{},
		Unprocessed: []models.UnprocessedAbsence{},
	}

	for _, u := range snap.UnprocessedAbsences {
		person := MatchPersonnel(u.Summary, snap.Personnel)
		if person == nil {
			result.Unprocessed = append(result.Unprocessed, u)
			continue
		}
		result.Committed = append(result.Committed, models.Absence{
			ID:          newID(),
			PersonnelID: person.ID,
			StartDate:   u.StartDate,
			EndDate:     u.EndDate,
			TypeID:      models.AbsenceTypeVacation,
			Note:        u.Summary,
		})
	}

	snap.Absences = append(snap.Absences, result.Committed...)
	snap.UnprocessedAbsences = result.Unprocessed
	return snap, result
}

// ImportCampaigns turns every event into a campaign. Category and manager
// are resolved via the keyword matcher and stay blank when nothing
// matches, left for manual assignment. The delivery deadline is derived by
// adding a fixed working-day lead to the end date.
func ImportCampaigns(snap models.Snapshot, events []Event, newID func() string) (models.Snapshot, []models.Campaign) {
	created := []models.Campaign{}
	for _, ev := range events {
		c := models.Campaign{
			ID:        newID(),
			Name:      ev.Summary,
			StartDate: ev.StartDate,
			EndDate:   ev.EndDate,
		}
		if cat := MatchCategory(ev.Summary, snap.CampaignCategories); cat != nil {
			c.CategoryID = cat.ID
		}
		if mgr := MatchManager(ev.Summary, snap.Personnel); mgr != nil {
			c.ManagerID = mgr.ID
		}
		if deadline, err := calendar.AddWorkingDays(ev.EndDate, deliveryLeadDays); err == nil {
			c.DeliveryDate = deadline
		}
		created = append(created, c)
	}
	snap.Campaigns = append(snap.Campaigns, created...)
	return snap, created
}
