package handler

import (
	"errors"
	"net/http"
	"strconv"

	"parking_enforcement/internal/repository"
	"parking_enforcement/internal/service"
	"parking_enforcement/internal/storage"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter, answering 400 when it
// is not one.
func parseIDParam(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": label + " ID is invalid"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrNoActiveSession):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEntry),
		errors.Is(err, service.ErrSpotOccupied),
		errors.Is(err, service.ErrSessionNotActive),
		errors.Is(err, service.ErrCompoundNotUnpaid):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrForeignKey), errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPlateNotRecognized):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNoOfficialProfile):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrStorageDisabled):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
