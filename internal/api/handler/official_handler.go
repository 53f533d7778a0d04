package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type OfficialHandler struct {
	officialService *service.OfficialService
}

func NewOfficialHandler(offs *service.OfficialService) *OfficialHandler {
	return &OfficialHandler{officialService: offs}
}

// GET /officials
func (h *OfficialHandler) GetOfficials(c *gin.Context) {
	officials, err := h.officialService.GetOfficials(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not list officials")
		return
	}
	c.JSON(http.StatusOK, officials)
}

// GET /officials/:id
func (h *OfficialHandler) GetOfficial(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Official")
	if !ok {
		return
	}
	official, err := h.officialService.GetOfficial(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load official")
		return
	}
	c.JSON(http.StatusOK, official)
}

// PUT /officials/:id
func (h *OfficialHandler) UpdateOfficial(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Official")
	if !ok {
		return
	}
	var dto domain.UpdateOfficialDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	official, err := h.officialService.UpdateOfficial(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err, "Could not update official")
		return
	}
	c.JSON(http.StatusOK, official)
}

// DELETE /officials/:id
func (h *OfficialHandler) DeleteOfficial(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Official")
	if !ok {
		return
	}
	if err := h.officialService.DeleteOfficial(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete official")
		return
	}
	c.Status(http.StatusNoContent)
}
