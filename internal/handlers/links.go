package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
)

type ConvertRequest struct {
	Link string `json:"link" binding:"required,url"`
}

type UpdateLinkRequest struct {
	OriginalLink  string `json:"original_link"`
	ConvertedLink string `json:"converted_link"`
}

// ListLinks returns every link grouped by owner.
func (h *Handler) ListLinks(c *gin.Context) {
	users, err := h.linkService.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Admin links error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":  http.StatusOK,
		"users": users,
	})
}

// ConvertLink shortens a link for the authenticated caller.
func (h *Handler) ConvertLink(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := claimsFrom(c)
	link, err := h.linkService.Convert(c.Request.Context(), claims.ID, req.Link)
	if err != nil {
		h.logger.Error("Conversion error", "user_id", claims.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	h.auditService.LogAction(&claims.ID, services.ActionConvertLink, strconv.FormatUint(uint64(link.ID), 10),
		gin.H{"original_link": link.OriginalLink}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "converted_link": link.ConvertedLink})
}

func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}

	if err := h.linkService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Error deleting link", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	claims := claimsFrom(c)
	h.auditService.LogAction(&claims.ID, services.ActionDeleteLink, c.Param("id"), nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted successfully"})
}

func (h *Handler) UpdateLink(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OriginalLink == "" || req.ConvertedLink == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Original link and converted link are required"})
		return
	}

	if err := h.linkService.Update(c.Request.Context(), id, req.OriginalLink, req.ConvertedLink); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Error updating link", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	claims := claimsFrom(c)
	h.auditService.LogAction(&claims.ID, services.ActionUpdateLink, c.Param("id"), req, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Link updated successfully"})
}

// LinkQRCode renders the converted form of a link as PNG, or SVG with
// ?format=svg.
func (h *Handler) LinkQRCode(c *gin.Context) {
	id, ok := linkID(c)
	if !ok {
		return
	}

	link, err := h.linkService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Error loading link for QR", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if c.Query("format") == "svg" {
		svg, err := h.qrService.SVG(link.ConvertedLink)
		if err != nil {
			h.logger.Error("QR SVG generation failed", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	size := services.DefaultQRSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size"})
			return
		}
		size = parsed
	}

	png, err := h.qrService.PNG(link.ConvertedLink, size)
	if err != nil {
		h.logger.Error("QR generation failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// linkID parses the :id path parameter, answering 400 when it is not a
// positive integer.
func linkID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return 0, false
	}
	return uint(id), true
}
