package handlers

import (
	"linkforge/internal/models"
	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter services.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.RequestLogger())

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	bearer := h.Authenticate(msgNoToken, HeaderTokenSource{})
	adminOnly := h.RoleRequired(models.RoleAdmin)

	// Account routes are served at the root and under /admin.
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	admin := r.Group("/admin")
	{
		admin.POST("/signup", h.Signup)
		admin.POST("/login", h.Login)
		admin.POST("/convert", bearer, h.ConvertLink)
		admin.GET("/links", bearer, adminOnly, h.ListLinks)
		admin.PUT("/links/:id", bearer, adminOnly, h.UpdateLink)
		admin.DELETE("/links/:id", bearer, adminOnly, h.DeleteLink)
		admin.GET("/links/:id/qr", bearer, adminOnly, h.LinkQRCode)
	}

	api := r.Group("/api")
	{
		register := api.Group("/register")
		register.POST("/signup", h.RegisterUser)
		register.POST("/login", h.LoginRegisteredUser)

		aliases := api.Group("/custom-aliases")
		aliases.Use(h.Authenticate(msgTokenRequired, BodyTokenSource{}, HeaderTokenSource{}))
		aliases.POST("", h.CreateCustomAlias)
		aliases.GET("", h.ListCustomAliases)
	}

	return r
}
