package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labplanner/backend/internal/models"
)

// @Summary Read-only share payload
// @Description The snapshot JSON base64-encoded for embedding in a URL fragment. A consumer in read-only mode decodes it in place of its local store.
// @Tags share
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/share [get]
func (h *Handler) ShareGet(c *gin.Context) {
	doc, err := json.Marshal(h.State.Snapshot())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "ENCODE_ERROR", "Failed to encode snapshot", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"fragment": base64.StdEncoding.EncodeToString(doc)})
}

type ShareDecodeRequest struct {
	Fragment string `json:"fragment" validate:"required"`
}

// @Summary Decode a share payload
// @Description Decodes and migrates a shared snapshot without persisting it.
// @Tags share
// @Accept json
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /api/share/decode [post]
func (h *Handler) ShareDecode(c *gin.Context) {
	var req ShareDecodeRequest
	if !h.bind(c, &req) {
		return
	}
	doc, err := base64.StdEncoding.DecodeString(req.Fragment)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Fragment is not valid base64", err.Error())
		return
	}
	snap, err := models.DecodeSnapshot(doc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SNAPSHOT", "Shared snapshot could not be decoded", err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}
