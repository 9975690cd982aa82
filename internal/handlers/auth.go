package handlers

import (
	"errors"
	"net/http"

	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
)

const passwordTooLongMsg = "Password must be at most 72 bytes"

type SignupRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Password string `json:"password" binding:"required,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		case errors.Is(err, services.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		case errors.Is(err, services.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": passwordTooLongMsg})
		default:
			h.logger.Error("Signup failed", "username", req.Username, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	h.auditService.LogAction(&user.ID, services.ActionSignup, user.Username, gin.H{"role": user.Role}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.auditService.LogAction(userID(user), services.ActionLogin, req.Username, gin.H{"success": false}, c.ClientIP(), c.Request.UserAgent())
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid username or password"})
			return
		}
		h.logger.Error("Login failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	h.auditService.LogAction(&user.ID, services.ActionLogin, user.Username, gin.H{"success": true}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"token": token})
}
