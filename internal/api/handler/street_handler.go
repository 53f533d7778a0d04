package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type StreetHandler struct {
	parkingService *service.ParkingService
}

func NewStreetHandler(ps *service.ParkingService) *StreetHandler {
	return &StreetHandler{parkingService: ps}
}

// GET /streets/:id
func (h *StreetHandler) GetStreet(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Street")
	if !ok {
		return
	}
	street, err := h.parkingService.GetStreet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load street")
		return
	}
	c.JSON(http.StatusOK, street)
}

// GET /streets/:id/spots
func (h *StreetHandler) GetSpots(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Street")
	if !ok {
		return
	}
	spots, err := h.parkingService.GetSpotsByStreet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not list parking spots")
		return
	}
	c.JSON(http.StatusOK, spots)
}

// POST /streets
func (h *StreetHandler) CreateStreet(c *gin.Context) {
	var dto domain.StreetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	street, err := h.parkingService.CreateStreet(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not create street")
		return
	}
	c.JSON(http.StatusCreated, street)
}

// PUT /streets/:id
func (h *StreetHandler) UpdateStreet(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Street")
	if !ok {
		return
	}
	var dto domain.StreetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	street, err := h.parkingService.UpdateStreet(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err, "Could not update street")
		return
	}
	c.JSON(http.StatusOK, street)
}

// DELETE /streets/:id
func (h *StreetHandler) DeleteStreet(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Street")
	if !ok {
		return
	}
	if err := h.parkingService.DeleteStreet(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete street")
		return
	}
	c.Status(http.StatusNoContent)
}
