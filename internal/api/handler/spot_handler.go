package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	parkingService *service.ParkingService
}

func NewSpotHandler(ps *service.ParkingService) *SpotHandler {
	return &SpotHandler{parkingService: ps}
}

// GET /spots/:id
func (h *SpotHandler) GetSpot(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Parking spot")
	if !ok {
		return
	}
	spot, err := h.parkingService.GetSpot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load parking spot")
		return
	}
	c.JSON(http.StatusOK, spot)
}

// POST /spots
func (h *SpotHandler) CreateSpot(c *gin.Context) {
	var dto domain.ParkingSpotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spot, err := h.parkingService.CreateSpot(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not create parking spot")
		return
	}
	c.JSON(http.StatusCreated, spot)
}

// PUT /spots/:id
func (h *SpotHandler) UpdateSpot(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Parking spot")
	if !ok {
		return
	}
	var dto domain.ParkingSpotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spot, err := h.parkingService.UpdateSpot(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err, "Could not update parking spot")
		return
	}
	c.JSON(http.StatusOK, spot)
}

// PATCH /spots/:id/availability
func (h *SpotHandler) SetAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Parking spot")
	if !ok {
		return
	}
	var dto domain.SpotAvailabilityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spot, err := h.parkingService.SetSpotAvailability(c.Request.Context(), id, *dto.IsAvailable)
	if err != nil {
		respondError(c, err, "Could not update availability")
		return
	}
	c.JSON(http.StatusOK, spot)
}

// DELETE /spots/:id
func (h *SpotHandler) DeleteSpot(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Parking spot")
	if !ok {
		return
	}
	if err := h.parkingService.DeleteSpot(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete parking spot")
		return
	}
	c.Status(http.StatusNoContent)
}
