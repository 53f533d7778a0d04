package handler

import (
	"net/http"

	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type CompoundHandler struct {
	compoundService *service.CompoundService
}

func NewCompoundHandler(cs *service.CompoundService) *CompoundHandler {
	return &CompoundHandler{compoundService: cs}
}

// GET /violations
func (h *CompoundHandler) GetViolations(c *gin.Context) {
	violations, err := h.compoundService.GetViolations(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not list violations")
		return
	}
	c.JSON(http.StatusOK, violations)
}

// GET /violations/:id
func (h *CompoundHandler) GetViolation(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Violation")
	if !ok {
		return
	}
	violation, err := h.compoundService.GetViolation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load violation")
		return
	}
	c.JSON(http.StatusOK, violation)
}

// GET /compounds?status=&plate=
func (h *CompoundHandler) FindCompounds(c *gin.Context) {
	var filter domain.CompoundFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	compounds, err := h.compoundService.FindCompounds(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not list compounds")
		return
	}
	c.JSON(http.StatusOK, compounds)
}

// GET /compounds/:id
func (h *CompoundHandler) GetCompound(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Compound")
	if !ok {
		return
	}
	compound, err := h.compoundService.GetCompound(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load compound")
		return
	}
	c.JSON(http.StatusOK, compound)
}

// POST /compounds
func (h *CompoundHandler) IssueCompound(c *gin.Context) {
	var dto domain.CreateCompoundDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	compound, err := h.compoundService.IssueCompound(c.Request.Context(), c.GetString(middleware.UserIDKey), dto)
	if err != nil {
		respondError(c, err, "Could not issue compound")
		return
	}
	c.JSON(http.StatusCreated, compound)
}

// POST /compounds/:id/pay
func (h *CompoundHandler) PayCompound(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Compound")
	if !ok {
		return
	}
	var dto domain.PayCompoundDTO
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	compound, err := h.compoundService.PayCompound(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err, "Could not record payment")
		return
	}
	c.JSON(http.StatusOK, compound)
}

// POST /compounds/:id/cancel
func (h *CompoundHandler) CancelCompound(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Compound")
	if !ok {
		return
	}
	compound, err := h.compoundService.CancelCompound(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not cancel compound")
		return
	}
	c.JSON(http.StatusOK, compound)
}

// POST /compounds/recognize-plate
func (h *CompoundHandler) RecognizePlate(c *gin.Context) {
	var req domain.LPRRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	resp, err := h.compoundService.RecognizePlate(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err, "Could not recognise plate")
		return
	}
	c.JSON(http.StatusOK, resp)
}
