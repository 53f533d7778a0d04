package handler

import (
	"net/http"

	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type ParkingSessionHandler struct {
	parkingService *service.ParkingService
}

func NewParkingSessionHandler(ps *service.ParkingService) *ParkingSessionHandler {
	return &ParkingSessionHandler{parkingService: ps}
}

// GET /sessions?status=&plate=&street_id=
func (h *ParkingSessionHandler) FindSessions(c *gin.Context) {
	var filter domain.ParkingSessionFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessions, err := h.parkingService.FindSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not list parking sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /sessions/:id
func (h *ParkingSessionHandler) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Session")
	if !ok {
		return
	}
	session, err := h.parkingService.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load parking session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /sessions/active/:plate
func (h *ParkingSessionHandler) GetActiveByPlate(c *gin.Context) {
	plate := c.Param("plate")
	if plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plate number is required"})
		return
	}
	session, err := h.parkingService.GetActiveSessionByPlate(c.Request.Context(), plate)
	if err != nil {
		respondError(c, err, "No active parking session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /sessions
func (h *ParkingSessionHandler) CreateSession(c *gin.Context) {
	var dto domain.CreateParkingSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.parkingService.CreateSession(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not start parking session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// POST /sessions/:id/end
func (h *ParkingSessionHandler) EndSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Session")
	if !ok {
		return
	}
	session, err := h.parkingService.EndSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not end parking session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /sessions/:id/cancel
func (h *ParkingSessionHandler) CancelSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Session")
	if !ok {
		return
	}
	session, err := h.parkingService.CancelSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not cancel parking session")
		return
	}
	c.JSON(http.StatusOK, session)
}
