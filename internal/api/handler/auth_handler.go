package handler

import (
	"net/http"

	"parking_enforcement/internal/api/middleware"
	"parking_enforcement/internal/domain"
	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(as *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var dto domain.LoginUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, authResponse)
}

// POST /functions/create-account
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var dto domain.CreateAccountDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	official, err := h.authService.CreateAccount(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err, "Could not create account")
		return
	}
	c.JSON(http.StatusCreated, official)
}

// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	account, err := h.authService.Account(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, err, "Could not load account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// PUT /me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var dto domain.ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), c.GetString(middleware.UserIDKey), dto); err != nil {
		respondError(c, err, "Could not change password")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /me/menu
func (h *AuthHandler) Menu(c *gin.Context) {
	role := domain.OfficialType(c.GetString(middleware.UserRoleKey))
	c.JSON(http.StatusOK, gin.H{"role": role, "items": service.Menu(role)})
}
