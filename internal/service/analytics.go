package service

import (
	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
)

const (
	BandOverloaded    = "overloaded"
	BandAtRisk        = "at-risk"
	BandBalanced      = "balanced"
	BandUnderutilized = "underutilized"
)

type WorkloadReport struct {
	Actual   float64 `json:"actual"`
	Capacity float64 `json:"capacity"`
	Percent  float64 `json:"percent"`
	Band     string  `json:"band"`
}

type DeliveryReport struct {
	Evaluated int     `json:"evaluated"`
	Met       int     `json:"met"`
	Rate      float64 `json:"rate"`
}

type PersonAnalytics struct {
	PersonnelID string         `json:"personnelId"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	Workload    WorkloadReport `json:"workload"`
	Delivery    DeliveryReport `json:"delivery"`
	Absences    map[string]int `json:"absences"`
}

// Workload sums instrument weights over the person's bookings in range and
// compares against capacity (working days x 8 hours, scaled by the work
// percentage). Zero capacity is treated as 1 to avoid dividing by zero.
func Workload(snap models.Snapshot, personnelID, startDate, endDate string) (WorkloadReport, error) {
	actual := 0.0
	for _, b := range snap.Bookings {
		if b.PersonnelID != personnelID || b.Date < startDate || b.Date > endDate {
			continue
		}
		if inst := snap.FindInstrument(b.InstrumentID); inst != nil {
			actual += inst.EffectiveWeight()
		} else {
			actual += 1
		}
	}

	days, err := calendar.CountWorkingDays(startDate, endDate)
	if err != nil {
		return WorkloadReport{}, err
	}
	pct := 100
	if p := snap.FindPersonnel(personnelID); p != nil {
		pct = p.EffectiveWorkPercentage()
	}
	capacity := float64(days) * 8 * float64(pct) / 100
	if capacity <= 0 {
		capacity = 1
	}
	percent := actual / capacity * 100

	return WorkloadReport{
		Actual:   actual,
		Capacity: capacity,
		Percent:  percent,
		Band:     workloadBand(percent),
	}, nil
}

// Bands are checked highest threshold first.
func workloadBand(percent float64) string {
	switch {
	case percent > 105:
		return BandOverloaded
	case percent > 90:
		return BandAtRisk
	case percent >= 40:
		return BandBalanced
	default:
		return BandUnderutilized
	}
}

// DeliveryRate considers campaigns managed by the person that end within
// the period and have been evaluated (DeliveryMet set). With nothing
// evaluated the rate defaults to 100%.
func DeliveryRate(snap models.Snapshot, personnelID, startDate, endDate string) DeliveryReport {
	evaluated, met := 0, 0
	for _, c := range snap.Campaigns {
		if c.ManagerID != personnelID || c.EndDate < startDate || c.EndDate > endDate {
			continue
		}
		if c.DeliveryMet == nil {
			continue
		}
		evaluated++
		if *c.DeliveryMet {
			met++
		}
	}
	rate := 100.0
	if evaluated > 0 {
		rate = float64(met) / float64(evaluated) * 100
	}
	return DeliveryReport{Evaluated: evaluated, Met: met, Rate: rate}
}

// AbsenceSummary counts, per absence type, the weekdays of each of the
// person's absences clipped to the period bounds.
func AbsenceSummary(snap models.Snapshot, personnelID, startDate, endDate string) (map[string]int, error) {
	out := map[string]int{}
	for _, a := range snap.Absences {
		if a.PersonnelID != personnelID {
			continue
		}
		if a.EndDate < startDate || a.StartDate > endDate {
			continue
		}
		from, to := a.StartDate, a.EndDate
		if from < startDate {
			from = startDate
		}
		if to > endDate {
			to = endDate
		}
		days, err := calendar.CountWorkingDays(from, to)
		if err != nil {
			return nil, err
		}
		out[a.TypeID] += days
	}
	return out, nil
}

// Analyze bundles the three per-person rollups for one period.
func Analyze(snap models.Snapshot, personnelID, startDate, endDate string) (PersonAnalytics, error) {
	workload, err := Workload(snap, personnelID, startDate, endDate)
	if err != nil {
		return PersonAnalytics{}, err
	}
	absences, err := AbsenceSummary(snap, personnelID, startDate, endDate)
	if err != nil {
		return PersonAnalytics{}, err
	}
	return PersonAnalytics{
		PersonnelID: personnelID,
		StartDate:   startDate,
		EndDate:     endDate,
		Workload:    workload,
		Delivery:    DeliveryRate(snap, personnelID, startDate, endDate),
		Absences:    absences,
	}, nil
}
