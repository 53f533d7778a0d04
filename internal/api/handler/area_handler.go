package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type AreaHandler struct {
	parkingService   *service.ParkingService
	inventoryService *service.InventoryService
}

func NewAreaHandler(ps *service.ParkingService, is *service.InventoryService) *AreaHandler {
	return &AreaHandler{parkingService: ps, inventoryService: is}
}

// GET /areas?lat=&lon=
func (h *AreaHandler) ListAreas(c *gin.Context) {
	var origin *domain.GeoPoint
	if c.Query("lat") != "" || c.Query("lon") != "" {
		var query domain.GeoPointQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		origin = &domain.GeoPoint{Latitude: *query.Latitude, Longitude: *query.Longitude}
	}

	areas, err := h.inventoryService.ListAreas(c.Request.Context(), origin)
	if err != nil {
		respondError(c, err, "Could not list areas")
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GET /areas/:id
func (h *AreaHandler) GetArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Area")
	if !ok {
		return
	}
	area, err := h.parkingService.GetArea(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// GET /areas/:id/inventory
func (h *AreaHandler) GetInventory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Area")
	if !ok {
		return
	}
	if _, err := h.parkingService.GetArea(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not load area")
		return
	}
	inventory, err := h.inventoryService.AreaInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load area inventory")
		return
	}
	c.JSON(http.StatusOK, inventory)
}

// GET /areas/:id/streets
func (h *AreaHandler) GetStreets(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Area")
	if !ok {
		return
	}
	streets, err := h.parkingService.GetStreetsByArea(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not list streets")
		return
	}
	c.JSON(http.StatusOK, streets)
}

// POST /areas
func (h *AreaHandler) CreateArea(c *gin.Context) {
	var dto domain.AreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, err := h.parkingService.CreateArea(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not create area")
		return
	}
	c.JSON(http.StatusCreated, area)
}

// PUT /areas/:id
func (h *AreaHandler) UpdateArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Area")
	if !ok {
		return
	}
	var dto domain.AreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	area, err := h.parkingService.UpdateArea(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err, "Could not update area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// DELETE /areas/:id
func (h *AreaHandler) DeleteArea(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Area")
	if !ok {
		return
	}
	if err := h.parkingService.DeleteArea(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete area")
		return
	}
	c.Status(http.StatusNoContent)
}
