package models

// Slot identifies one of the two half-day periods of a date.
type Slot string

const (
	SlotMorning   Slot = "M"
	SlotAfternoon Slot = "P"
)

// ValidSlot reports whether s is one of the two known half-day slots.
func ValidSlot(s Slot) bool {
	return s == SlotMorning || s == SlotAfternoon
}

// Well-known absence type ids seeded at first run. AbsenceTypeFixed is
// reserved for fixed-absence display and is never user-selectable.
const (
	AbsenceTypeOffSite  = "fuori_sede"
	AbsenceTypeVacation = "ferie"
	AbsenceTypeSick     = "malattia"
	AbsenceTypeRemote   = "telelavoro"
	AbsenceTypeFixed    = "fisse"
)

// OverridePresent is the sentinel value a status override may carry to force
// a slot to "present" even when an absence would otherwise apply.
const OverridePresent = "present"

type Instrument struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CategoryID      string  `json:"categoryId,omitempty"`
	Location        string  `json:"location,omitempty"`
	InventoryNumber string  `json:"inventoryNumber,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
}

// EffectiveWeight returns the workload unit of the instrument, defaulting
// to 1 when unset.
func (i Instrument) EffectiveWeight() float64 {
	if i.Weight <= 0 {
		return 1
	}
	return i.Weight
}

type InstrumentCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type CampaignCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
	Keywords string `json:"keywords,omitempty"`
}

// FixedAbsences maps a weekday index (0=Monday..4=Friday) to the absence
// type applied on each slot of that weekday.
type FixedAbsences map[int]map[Slot]string

type Personnel struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Initials       string        `json:"initials,omitempty"`
	WorkPercentage int           `json:"workPercentage,omitempty"`
	Color          string        `json:"color,omitempty"`
	Keywords       string        `json:"keywords,omitempty"`
	FixedAbsences  FixedAbsences `json:"fixedAbsences,omitempty"`
}

// EffectiveWorkPercentage defaults to full time when unset.
func (p Personnel) EffectiveWorkPercentage() int {
	if p.WorkPercentage <= 0 {
		return 100
	}
	return p.WorkPercentage
}

type AbsenceType struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Absence is a full-day inclusive date range for one person.
type Absence struct {
	ID          string `json:"id"`
	PersonnelID string `json:"personnelId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	TypeID      string `json:"typeId"`
	Note        string `json:"note,omitempty"`
}

// UnprocessedAbsence holds an imported calendar event that could not be
// matched to a person; it is kept for manual correction and retry.
type UnprocessedAbsence struct {
	ID            string `json:"id"`
	Summary       string `json:"summary"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	FailureReason string `json:"failureReason"`
}

type Campaign struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	CategoryID   string `json:"categoryId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
	// DeliveryMet is tri-state: nil means not yet evaluated.
	DeliveryMet *bool `json:"deliveryMet,omitempty"`
}

type Booking struct {
	ID           string `json:"id"`
	InstrumentID string `json:"instrumentId"`
	PersonnelID  string `json:"personnelId"`
	Date         string `json:"date"`
	Slot         Slot   `json:"slot"`
	Note         string `json:"note,omitempty"`
}

// TemplateSlot is the payload stored at one positional key of a template.
type TemplateSlot struct {
	PersonnelID string `json:"personnelId"`
	Note        string `json:"note,omitempty"`
}

// Template is a position-addressed booking pattern: keys are serialized
// PositionKeys (instrument, weekday offset, slot), which is what makes the
// template replayable onto any week.
type Template struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	PositionalBookings map[string]TemplateSlot `json:"positionalBookings"`
}

// Snapshot is the single root document the UI owns. All relationships are
// by id, resolved at read time; nothing holds a live reference.
type Snapshot struct {
	SchemaVersion        int                  `json:"schemaVersion"`
	Instruments          []Instrument         `json:"instruments"`
	InstrumentCategories []InstrumentCategory `json:"instrumentCategories,omitempty"`
	CampaignCategories   []CampaignCategory   `json:"campaignCategories,omitempty"`
	Personnel            []Personnel          `json:"personnel"`
	AbsenceTypes         []AbsenceType        `json:"absenceTypes"`
	Absences             []Absence            `json:"absences,omitempty"`
	UnprocessedAbsences  []UnprocessedAbsence `json:"unprocessedAbsences,omitempty"`
	Campaigns            []Campaign           `json:"campaigns,omitempty"`
	Bookings             []Booking            `json:"bookings"`
	Templates            []Template           `json:"templates,omitempty"`
	StatusOverrides      map[string]string    `json:"statusOverrides,omitempty"`
	WeeklyNotes          map[string]string    `json:"weeklyNotes,omitempty"`
}

// Preferences is the small cosmetic document stored separately from the
// snapshot.
type Preferences struct {
	LastViewedDate  string `json:"lastViewedDate,omitempty"`
	ActiveTab       string `json:"activeTab,omitempty"`
	PersonnelFilter string `json:"personnelFilter,omitempty"`
}

// FindInstrument resolves an instrument by id; nil when missing (deleted
// instruments must not break referencing bookings).
func (s Snapshot) FindInstrument(id string) *Instrument {
	for i := range s.Instruments {
		if s.Instruments[i].ID == id {
			return &s.Instruments[i]
		}
	}
	return nil
}

func (s Snapshot) FindPersonnel(id string) *Personnel {
	for i := range s.Personnel {
		if s.Personnel[i].ID == id {
			return &s.Personnel[i]
		}
	}
	return nil
}

// FindAbsenceType resolves a type id; nil for stale references.
func (s Snapshot) FindAbsenceType(id string) *AbsenceType {
	for i := range s.AbsenceTypes {
		if s.AbsenceTypes[i].ID == id {
			return &s.AbsenceTypes[i]
		}
	}
	return nil
}

func (s Snapshot) FindCampaignCategory(id string) *CampaignCategory {
	for i := range s.CampaignCategories {
		if s.CampaignCategories[i].ID == id {
			return &s.CampaignCategories[i]
		}
	}
	return nil
}

func (s Snapshot) FindTemplate(id string) *Template {
	for i := range s.Templates {
		if s.Templates[i].ID == id {
			return &s.Templates[i]
		}
	}
	return nil
}

// SelectableAbsenceTypes returns the types offered in user-facing pickers
// for ad-hoc absences and status overrides. The reserved fixed-absence type
// is excluded.
func (s Snapshot) SelectableAbsenceTypes() []AbsenceType {
	out := make([]AbsenceType, 0, len(s.AbsenceTypes))
	for _, t := range s.AbsenceTypes {
		if t.ID == AbsenceTypeFixed {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SeedSnapshot is the safe default the system starts from when no persisted
// document exists or the persisted one is unreadable.
func SeedSnapshot() Snapshot {
	return Snapshot{
		SchemaVersion: CurrentSchemaVersion,
		Instruments:   []Instrument{},
		Personnel:     []Personnel{},
		AbsenceTypes:  SeedAbsenceTypes(),
		Bookings:      []Booking{},
	}
}

func SeedAbsenceTypes() []AbsenceType {
	return []AbsenceType{
		{ID: AbsenceTypeOffSite, Name: "Fuori sede", Color: "#f59e0b"},
		{ID: AbsenceTypeVacation, Name: "Ferie", Color: "#22c55e"},
		{ID: AbsenceTypeSick, Name: "Malattia", Color: "#ef4444"},
		{ID: AbsenceTypeRemote, Name: "Telelavoro", Color: "#3b82f6"},
		{ID: AbsenceTypeFixed, Name: "Assenze fisse", Color: "#94a3b8"},
	}
}

// EnsureSeedTypes backfills any missing well-known absence type without
// touching existing ones.
func EnsureSeedTypes(s Snapshot) Snapshot {
	for _, seed := range SeedAbsenceTypes() {
		if s.FindAbsenceType(seed.ID) == nil {
			s.AbsenceTypes = append(s.AbsenceTypes, seed)
		}
	}
	return s
}
