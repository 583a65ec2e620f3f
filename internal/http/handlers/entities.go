package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/models"
	"github.com/labplanner/backend/internal/service"
	"github.com/labplanner/backend/internal/utils"
)

// Palette used for deterministic color assignment when an entity is saved
// without one.
var colorPalette = []string{
	"#ef4444", "#f59e0b", "#22c55e", "#3b82f6", "#8b5cf6",
	"#ec4899", "#14b8a6", "#f97316", "#64748b",
}

type InstrumentRequest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name" validate:"required"`
	CategoryID      string  `json:"categoryId"`
	Location        string  `json:"location"`
	InventoryNumber string  `json:"inventoryNumber"`
	Weight          float64 `json:"weight" validate:"gte=0"`
}

func (h *Handler) InstrumentUpsert(c *gin.Context) {
	var req InstrumentRequest
	if !h.bind(c, &req) {
		return
	}
	inst := models.Instrument{
		ID:              req.ID,
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		Location:        req.Location,
		InventoryNumber: req.InventoryNumber,
		Weight:          req.Weight,
	}
	if inst.ID == "" {
		inst.ID = utils.NewID("ins")
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Instruments = upsertByID(snap.Instruments, inst, func(i models.Instrument) string { return i.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, inst)
}

// InstrumentDelete removes the instrument only. Deletion does not cascade:
// referencing bookings stay and resolve their instrument to missing.
func (h *Handler) InstrumentDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Instruments = deleteByID(snap.Instruments, id, func(i models.Instrument) string { return i.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type InstrumentCategoryRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (h *Handler) InstrumentCategoryUpsert(c *gin.Context) {
	var req InstrumentCategoryRequest
	if !h.bind(c, &req) {
		return
	}
	cat := models.InstrumentCategory{
		ID:    req.ID,
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	}
	if cat.ID == "" {
		cat.ID = utils.NewID("icat")
	}
	if cat.Color == "" {
		cat.Color = utils.PickColor(colorPalette, cat.Name)
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.InstrumentCategories = upsertByID(snap.InstrumentCategories, cat, func(x models.InstrumentCategory) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cat)
}

// InstrumentCategoryDelete removes the category only; instruments keep
// their categoryId and resolve it to missing.
func (h *Handler) InstrumentCategoryDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.InstrumentCategories = deleteByID(snap.InstrumentCategories, id, func(x models.InstrumentCategory) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type CampaignCategoryRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Keywords string `json:"keywords"`
}

// CampaignCategoryUpsert maintains the keyword lists the campaign importer
// matches against.
func (h *Handler) CampaignCategoryUpsert(c *gin.Context) {
	var req CampaignCategoryRequest
	if !h.bind(c, &req) {
		return
	}
	cat := models.CampaignCategory{
		ID:       req.ID,
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		Keywords: req.Keywords,
	}
	if cat.ID == "" {
		cat.ID = utils.NewID("ccat")
	}
	if cat.Color == "" {
		cat.Color = utils.PickColor(colorPalette, cat.Name)
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.CampaignCategories = upsertByID(snap.CampaignCategories, cat, func(x models.CampaignCategory) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) CampaignCategoryDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.CampaignCategories = deleteByID(snap.CampaignCategories, id, func(x models.CampaignCategory) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type PersonnelRequest struct {
	ID             string               `json:"id"`
	Name           string               `json:"name" validate:"required"`
	Initials       string               `json:"initials"`
	WorkPercentage int                  `json:"workPercentage" validate:"gte=0,lte=100"`
	Color          string               `json:"color"`
	Keywords       string               `json:"keywords"`
	FixedAbsences  models.FixedAbsences `json:"fixedAbsences"`
}

func (h *Handler) PersonnelUpsert(c *gin.Context) {
	var req PersonnelRequest
	if !h.bind(c, &req) {
		return
	}
	for day, slots := range req.FixedAbsences {
		if day < 0 || day > 4 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "fixedAbsences weekday index must be 0..4 (Monday..Friday)", day)
			return
		}
		for slot := range slots {
			if !models.ValidSlot(slot) {
				writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "fixedAbsences slot must be M or P", slot)
				return
			}
		}
	}
	p := models.Personnel{
		ID:             req.ID,
		Name:           req.Name,
		Initials:       req.Initials,
		WorkPercentage: req.WorkPercentage,
		Color:          req.Color,
		Keywords:       req.Keywords,
		FixedAbsences:  req.FixedAbsences,
	}
	if p.ID == "" {
		p.ID = utils.NewID("per")
	}
	if p.Color == "" {
		p.Color = utils.PickColor(colorPalette, p.Name)
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Personnel = upsertByID(snap.Personnel, p, func(x models.Personnel) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) PersonnelDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Personnel = deleteByID(snap.Personnel, id, func(x models.Personnel) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type AbsenceRequest struct {
	ID          string `json:"id"`
	PersonnelID string `json:"personnelId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	TypeID      string `json:"typeId" validate:"required"`
	Note        string `json:"note"`
}

func (h *Handler) AbsenceUpsert(c *gin.Context) {
	var req AbsenceRequest
	if !h.bind(c, &req) {
		return
	}
	if req.EndDate < req.StartDate {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "startDate must not be after endDate", nil)
		return
	}
	if req.TypeID == models.AbsenceTypeFixed {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "the fixed-absence type is reserved and not selectable for ad-hoc absences", nil)
		return
	}
	a := models.Absence{
		ID:          req.ID,
		PersonnelID: req.PersonnelID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TypeID:      req.TypeID,
		Note:        req.Note,
	}
	if a.ID == "" {
		a.ID = utils.NewID("abs")
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Absences = upsertByID(snap.Absences, a, func(x models.Absence) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) AbsenceDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Absences = deleteByID(snap.Absences, id, func(x models.Absence) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type CampaignRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"required,datetime=2006-01-02"`
	CategoryID   string `json:"categoryId"`
	ManagerID    string `json:"managerId"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryMet  *bool  `json:"deliveryMet"`
}

func (h *Handler) CampaignUpsert(c *gin.Context) {
	var req CampaignRequest
	if !h.bind(c, &req) {
		return
	}
	if req.EndDate < req.StartDate {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "startDate must not be after endDate", nil)
		return
	}
	camp := models.Campaign{
		ID:           req.ID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CategoryID:   req.CategoryID,
		ManagerID:    req.ManagerID,
		DeliveryDate: req.DeliveryDate,
		DeliveryMet:  req.DeliveryMet,
	}
	if camp.ID == "" {
		camp.ID = utils.NewID("cmp")
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Campaigns = upsertByID(snap.Campaigns, camp, func(x models.Campaign) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, camp)
}

func (h *Handler) CampaignDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Campaigns = deleteByID(snap.Campaigns, id, func(x models.Campaign) string { return x.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type BookingRequest struct {
	ID           string `json:"id"`
	InstrumentID string `json:"instrumentId" validate:"required"`
	PersonnelID  string `json:"personnelId" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot         string `json:"slot" validate:"required,oneof=M P"`
	Note         string `json:"note"`
}

// @Summary Create or edit a booking
// @Description The store enforces at most one booking per instrument/date/slot.
// @Tags bookings
// @Accept json
// @Produce json
// @Success 200 {object} models.Booking
// @Router /api/bookings [post]
func (h *Handler) BookingUpsert(c *gin.Context) {
	var req BookingRequest
	if !h.bind(c, &req) {
		return
	}
	b := models.Booking{
		ID:           req.ID,
		InstrumentID: req.InstrumentID,
		PersonnelID:  req.PersonnelID,
		Date:         req.Date,
		Slot:         models.Slot(req.Slot),
		Note:         req.Note,
	}
	if b.ID == "" {
		b.ID = utils.NewID("bkg")
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Bookings = service.UpsertBooking(snap.Bookings, b)
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) BookingDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Bookings = service.DeleteBooking(snap.Bookings, id)
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type OverrideRequest struct {
	PersonnelID string `json:"personnelId" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot        string `json:"slot" validate:"required,oneof=M P"`
	// Value is "present", an absence type id, or empty to clear the
	// override.
	Value string `json:"value"`
}

func (h *Handler) OverrideSet(c *gin.Context) {
	var req OverrideRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Value == models.AbsenceTypeFixed {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "the fixed-absence type is reserved and not selectable for overrides", nil)
		return
	}
	key := models.OverrideKey{PersonnelID: req.PersonnelID, Date: req.Date, Slot: models.Slot(req.Slot)}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		overrides := map[string]string{}
		for k, v := range snap.StatusOverrides {
			overrides[k] = v
		}
		if req.Value == "" {
			delete(overrides, key.String())
		} else {
			overrides[key.String()] = req.Value
		}
		snap.StatusOverrides = overrides
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "key": key.String()})
}

type TemplateCaptureRequest struct {
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"required"`
	Week int    `json:"week" validate:"required,gte=1,lte=53"`
}

// @Summary Capture a week into a positional template
// @Tags templates
// @Accept json
// @Produce json
// @Success 200 {object} models.Template
// @Router /api/templates/capture [post]
func (h *Handler) TemplateCapture(c *gin.Context) {
	var req TemplateCaptureRequest
	if !h.bind(c, &req) {
		return
	}
	var tpl models.Template
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		tpl = service.CaptureTemplate(snap.Bookings, calendar.WeekDates(req.Year, req.Week), req.Name)
		tpl.ID = utils.NewID("tpl")
		snap.Templates = upsertByID(snap.Templates, tpl, func(t models.Template) string { return t.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type TemplateApplyRequest struct {
	Year int `json:"year" validate:"required"`
	Week int `json:"week" validate:"required,gte=1,lte=53"`
}

// @Summary Replay a template onto a target week
// @Description Destructive full replace of the target week's bookings. The UI confirms before calling.
// @Tags templates
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/templates/{id}/apply [post]
func (h *Handler) TemplateApply(c *gin.Context) {
	id := c.Param("id")
	var req TemplateApplyRequest
	if !h.bind(c, &req) {
		return
	}
	tpl := h.State.Snapshot().FindTemplate(id)
	if tpl == nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Template not found", nil)
		return
	}
	next, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Bookings = service.ApplyTemplate(snap.Bookings, *tpl, calendar.WeekStart(req.Year, req.Week), func() string {
			return utils.NewID("bkg")
		})
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "bookings": len(next.Bookings)})
}

func (h *Handler) TemplateDelete(c *gin.Context) {
	id := c.Param("id")
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Templates = deleteByID(snap.Templates, id, func(t models.Template) string { return t.ID })
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}

func upsertByID[T any](items []T, item T, id func(T) string) []T {
	out := make([]T, 0, len(items)+1)
	for _, existing := range items {
		if id(existing) == id(item) {
			continue
		}
		out = append(out, existing)
	}
	return append(out, item)
}

func deleteByID[T any](items []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, existing := range items {
		if id(existing) == target {
			continue
		}
		out = append(out, existing)
	}
	return out
}
