package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/labplanner/backend/internal/calendar"
	"github.com/labplanner/backend/internal/db"
	"github.com/labplanner/backend/internal/ics"
	"github.com/labplanner/backend/internal/models"
	"github.com/labplanner/backend/internal/service"
	"github.com/labplanner/backend/internal/state"
)

type Handler struct {
	State     *state.Manager
	Store     *db.Store
	Fetcher   ics.Fetcher
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// update funnels a handler's mutation through the state manager and maps
// persistence failures onto the error envelope. The bool reports success.
func (h *Handler) update(c *gin.Context, fn func(models.Snapshot) (models.Snapshot, error)) (models.Snapshot, bool) {
	next, err := h.State.Update(c.Request.Context(), fn)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STATE_ERROR", "Failed to commit snapshot", err.Error())
		return models.Snapshot{}, false
	}
	return next, true
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "persistence": "memory"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Current snapshot
// @Tags snapshot
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /api/snapshot [get]
func (h *Handler) SnapshotGet(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Snapshot())
}

// @Summary Replace the whole snapshot
// @Description Bulk import: replaces the entire dataset after structural sanity checks.
// @Tags snapshot
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/snapshot [put]
func (h *Handler) SnapshotPut(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable body", err.Error())
		return
	}
	snap, err := models.DecodeSnapshot(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SNAPSHOT", "Snapshot could not be decoded", err.Error())
		return
	}
	if snap.Instruments == nil || snap.Personnel == nil || snap.Bookings == nil {
		writeError(c, http.StatusBadRequest, "INVALID_SNAPSHOT", "Snapshot is missing required collections", nil)
		return
	}
	if err := h.State.Replace(c.Request.Context(), snap); err != nil {
		writeError(c, http.StatusInternalServerError, "STATE_ERROR", "Failed to commit snapshot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Resolved week grid
// @Tags schedule
// @Produce json
// @Param year query int true "ISO week-numbering year"
// @Param week query int true "ISO week number"
// @Success 200 {object} service.WeekGrid
// @Router /api/schedule/week [get]
func (h *Handler) ScheduleWeek(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	week, errW := strconv.Atoi(c.Query("week"))
	if errY != nil || errW != nil || week < 1 || week > 53 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "year and week are required integers", nil)
		return
	}
	grid, err := service.BuildWeekGrid(h.State.Snapshot(), year, week)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "GRID_ERROR", "Failed to build week grid", err.Error())
		return
	}
	c.JSON(http.StatusOK, grid)
}

// @Summary Effective status of one cell
// @Tags schedule
// @Produce json
// @Param personnelId query string true "Personnel id"
// @Param date query string true "Date YYYY-MM-DD"
// @Param slot query string true "M or P"
// @Success 200 {object} service.Status
// @Router /api/status [get]
func (h *Handler) StatusGet(c *gin.Context) {
	personnelID := c.Query("personnelId")
	slot := models.Slot(c.Query("slot"))
	date, err := calendar.ParseDate(c.Query("date"))
	if personnelID == "" || err != nil || !models.ValidSlot(slot) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "personnelId, date and slot are required", nil)
		return
	}
	c.JSON(http.StatusOK, service.ResolveStatus(h.State.Snapshot(), personnelID, date, slot))
}

func (h *Handler) AbsenceTypesList(c *gin.Context) {
	snap := h.State.Snapshot()
	if c.Query("selectable") == "1" {
		c.JSON(http.StatusOK, gin.H{"items": snap.SelectableAbsenceTypes()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": snap.AbsenceTypes})
}

// @Summary Per-person analytics for a period
// @Tags analytics
// @Produce json
// @Param personnelId query string true "Personnel id"
// @Param start query string true "Start date YYYY-MM-DD"
// @Param end query string true "End date YYYY-MM-DD"
// @Success 200 {object} service.PersonAnalytics
// @Router /api/analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	personnelID := c.Query("personnelId")
	start := c.Query("start")
	end := c.Query("end")
	if personnelID == "" || start == "" || end == "" || end < start {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "personnelId, start and end are required, start <= end", nil)
		return
	}
	report, err := service.Analyze(h.State.Snapshot(), personnelID, start, end)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid period", err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Latest import run
// @Tags runs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", nil)
		return
	}
	result, err := h.Store.GetLatestRun(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) PreferencesGet(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, models.Preferences{})
		return
	}
	prefs, err := h.Store.LoadPreferences(c.Request.Context())
	if err != nil {
		// Cosmetic document: degrade to empty rather than erroring.
		c.JSON(http.StatusOK, models.Preferences{})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) PreferencesPut(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if h.Store != nil {
		if err := h.Store.SavePreferences(c.Request.Context(), prefs); err != nil {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to save preferences", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) NoteGet(c *gin.Context) {
	week := c.Param("week")
	snap := h.State.Snapshot()
	c.JSON(http.StatusOK, gin.H{"week": week, "text": snap.WeeklyNotes[week]})
}

type NoteRequest struct {
	Text string `json:"text"`
}

func (h *Handler) NotePut(c *gin.Context) {
	week := c.Param("week")
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	_, ok := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
		notes := map[string]string{}
		for k, v := range snap.WeeklyNotes {
			notes[k] = v
		}
		if req.Text == "" {
			delete(notes, week)
		} else {
			notes[week] = req.Text
		}
		snap.WeeklyNotes = notes
		return snap, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
