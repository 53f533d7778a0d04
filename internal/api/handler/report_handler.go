package handler

import (
	"net/http"

	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(rs *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GET /reports?status=
func (h *ReportHandler) FindReports(c *gin.Context) {
	var filter domain.ReportFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reports, err := h.reportService.FindReports(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not list reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GET /reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Report")
	if !ok {
		return
	}
	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /reports/:id/image
func (h *ReportHandler) GetReportImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Report")
	if !ok {
		return
	}
	body, contentType, err := h.reportService.ReportImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load report image")
		return
	}
	defer body.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

// POST /reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var dto domain.CreateReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reportService.CreateReport(c.Request.Context(), c.GetString(middleware.UserIDKey), dto)
	if err != nil {
		respondError(c, err, "Could not create report")
		return
	}
	c.JSON(http.StatusCreated, report)
}

// PATCH /reports/:id/status
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Report")
	if !ok {
		return
	}
	var dto domain.UpdateReportStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.reportService.UpdateReportStatus(c.Request.Context(), id, domain.ReportStatus(dto.Status))
	if err != nil {
		respondError(c, err, "Could not update report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// DELETE /reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Report")
	if !ok {
		return
	}
	if err := h.reportService.DeleteReport(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete report")
		return
	}
	c.Status(http.StatusNoContent)
}
