package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labplanner/backend/internal/ics"
	"github.com/labplanner/backend/internal/models"
	"github.com/labplanner/backend/internal/utils"
)

// ICSImportRequest carries a whole calendar file as text, or a feed URL to
// fetch one from. Exactly one of the two is expected.
type ICSImportRequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (h *Handler) calendarText(c *gin.Context, req ICSImportRequest) (string, bool) {
	if req.Text != "" {
		return req.Text, true
	}
	if req.URL == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "either text or url is required", nil)
		return "", false
	}
	if h.Fetcher == nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "feed fetching is not configured", nil)
		return "", false
	}
	text, err := h.Fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, http.StatusBadGateway, "FEED_ERROR", "Failed to fetch calendar feed", err.Error())
		return "", false
	}
	return text, true
}

// @Summary Import absences from an ICS calendar
// @Description Matched events become vacation absences; unmatched ones join the retryable unprocessed queue.
// @Tags import
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/import/ics/absences [post]
func (h *Handler) ImportICSAbsences(c *gin.Context) {
	var req ICSImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	text, ok := h.calendarText(c, req)
	if !ok {
		return
	}

	events := ics.Parse(text)
	var result ics.AbsenceImportResult
	_, ok = h.audit(c, "ics_absences", func() (any, bool) {
		_, committed := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
			var next models.Snapshot
			next, result = ics.ImportAbsences(snap, events, func() string { return utils.NewID("abs") })
			return next, nil
		})
		if !committed {
			return nil, false
		}
		return gin.H{
			"events":      len(events),
			"committed":   len(result.Committed),
			"unprocessed": len(result.Unprocessed),
		}, true
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"events":      len(events),
		"committed":   result.Committed,
		"unprocessed": result.Unprocessed,
	})
}

// @Summary Retry the unprocessed absence queue
// @Tags import
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/absences/reprocess [post]
func (h *Handler) ReprocessAbsences(c *gin.Context) {
	var result ics.AbsenceImportResult
	_, ok := h.audit(c, "reprocess_absences", func() (any, bool) {
		_, committed := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
			var next models.Snapshot
			next, result = ics.Reprocess(snap, func() string { return utils.NewID("abs") })
			return next, nil
		})
		if !committed {
			return nil, false
		}
		return gin.H{
			"newly_committed":   len(result.Committed),
			"still_unprocessed": len(result.Unprocessed),
		}, true
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"newlyCommitted":   result.Committed,
		"stillUnprocessed": result.Unprocessed,
	})
}

// @Summary Import campaigns from an ICS calendar
// @Description Category and manager are resolved via keyword matching; unmatched fields stay blank for manual assignment.
// @Tags import
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/import/ics/campaigns [post]
func (h *Handler) ImportICSCampaigns(c *gin.Context) {
	var req ICSImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	text, ok := h.calendarText(c, req)
	if !ok {
		return
	}

	events := ics.Parse(text)
	var created []models.Campaign
	_, ok = h.audit(c, "ics_campaigns", func() (any, bool) {
		_, committed := h.update(c, func(snap models.Snapshot) (models.Snapshot, error) {
			var next models.Snapshot
			next, created = ics.ImportCampaigns(snap, events, func() string { return utils.NewID("cmp") })
			return next, nil
		})
		if !committed {
			return nil, false
		}
		return gin.H{"events": len(events), "created": len(created)}, true
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": len(events), "campaigns": created})
}

// audit wraps an import operation in an import_runs record when a store is
// configured. The inner func reports its summary and whether it already
// wrote an HTTP error.
func (h *Handler) audit(c *gin.Context, kind string, fn func() (any, bool)) (any, bool) {
	if h.Store == nil {
		return fn()
	}
	runID, err := h.Store.CreateRun(c.Request.Context(), kind)
	if err != nil {
		h.Logger.Error().Err(err).Str("kind", kind).Msg("failed to create import run")
		return fn()
	}
	summary, ok := fn()
	status := "SUCCESS"
	if !ok {
		status = "FAILED"
	}
	b, _ := json.Marshal(summary)
	if finishErr := h.Store.FinishRun(c.Request.Context(), runID, status, b); finishErr != nil {
		h.Logger.Error().Err(finishErr).Str("kind", kind).Msg("failed to finish import run")
	}
	return summary, ok
}
