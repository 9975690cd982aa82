package handlers

import (
	"errors"
	"net/http"

	"linkforge/internal/models"
	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,max=72"`
}

type EmailLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser is the email based signup.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		case errors.Is(err, services.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": passwordTooLongMsg})
			return
		}
		h.logger.Error("Register failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.auditService.LogAction(&user.ID, services.ActionRegister, user.Username, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// LoginRegisteredUser is the email based login.
func (h *Handler) LoginRegisteredUser(c *gin.Context) {
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.LoginByEmail(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.auditService.LogAction(userID(user), services.ActionLogin, req.Email, gin.H{"success": false}, c.ClientIP(), c.Request.UserAgent())
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		h.logger.Error("Email login failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.auditService.LogAction(&user.ID, services.ActionLogin, req.Email, gin.H{"success": true}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully", "token": token})
}

func userID(user *models.User) *uint {
	if user == nil {
		return nil
	}
	return &user.ID
}
