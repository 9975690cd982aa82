package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CustomAliasRequest struct {
	OriginalLink string `json:"original_link" binding:"required"`
	CustomLink   string `json:"custom_link" binding:"required,max=64"`
}

type customAliasView struct {
	OriginalLink        string `json:"original_link"`
	ConvertedCustomLink string `json:"converted_custom_link"`
}

func (h *Handler) CreateCustomAlias(c *gin.Context) {
	var req CustomAliasRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Original link and custom link are required"})
		return
	}

	claims := claimsFrom(c)
	link, err := h.linkService.CreateCustomAlias(c.Request.Context(), claims.ID, req.OriginalLink, req.CustomLink)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Custom link already exists"})
			return
		}
		h.logger.Error("Error occurred during custom alias creation", "user_id", claims.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": http.StatusInternalServerError, "error": "Internal Server Error"})
		return
	}

	h.auditService.LogAction(&claims.ID, services.ActionCreateAlias, link.CustomLink,
		gin.H{"original_link": link.OriginalLink}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{
		"code": http.StatusOK,
		"data": customAliasView{
			OriginalLink:        link.OriginalLink,
			ConvertedCustomLink: h.linkService.CustomURL(link.CustomLink),
		},
	})
}

// ListCustomAliases returns the caller's aliases keyed by position, from 1.
func (h *Handler) ListCustomAliases(c *gin.Context) {
	claims := claimsFrom(c)
	links, err := h.linkService.ListOwn(c.Request.Context(), claims.ID)
	if err != nil {
		h.logger.Error("Error occurred during fetching custom aliases", "user_id", claims.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"response": http.StatusInternalServerError, "error": "Internal Server Error"})
		return
	}

	views := make(map[string]customAliasView, len(links))
	for i, link := range links {
		views[strconv.Itoa(i+1)] = customAliasView{
			OriginalLink:        link.OriginalLink,
			ConvertedCustomLink: h.linkService.CustomURL(link.CustomLink),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"code":                   http.StatusOK,
		"converted_custom_links": views,
	})
}
