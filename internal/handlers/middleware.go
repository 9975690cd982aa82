package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Missing-token messages differ between route families.
const (
	msgNoToken       = "No token provided"
	msgTokenRequired = "Token is required"
)

// Authenticate verifies the token offered by sources and stores its claims on
// the context. missingMsg is the 401 body when no source yields a token.
func (h *Handler) Authenticate(missingMsg string, sources ...TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, sources)
		claims, err := h.tokenService.Verify(token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": missingMsg})
				return
			}
			h.logger.Debug("Token verification failed", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RoleRequired admits only callers whose verified claims carry role. It must
// run after Authenticate.
func (h *Handler) RoleRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := services.RequireRole(claimsFrom(c), role)
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgNoToken})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied, admin only"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *services.Claims {
	val, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, _ := val.(*services.Claims)
	return claims
}

func (h *Handler) RateLimitMiddleware(limiter services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			h.logger.Warn("Rate limiter unavailable", "ip", ip, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request at a level matching its status.
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"remote_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		h.logger.Log(c.Request.Context(), levelForStatus(status), "http request", attrs...)
	}
}

func levelForStatus(code int) slog.Level {
	if code >= 500 {
		return slog.LevelError
	}
	if code >= 400 {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
