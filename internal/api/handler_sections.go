package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timekeeper-backend/internal/core"
)

type sectionRequest struct {
	Name string `json:"name" binding:"required"`
}

type assignSectionRequest struct {
	EntityID  string `json:"entityId" binding:"required"`
	SectionID string `json:"sectionId"`
}

// sectionRoutes registers the section CRUD for one domain under group.
func (h *Handler) sectionRoutes(group *gin.RouterGroup, d core.Domain) {
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, h.ctrl.Sections(d))
	})
	group.POST("", func(c *gin.Context) {
		var req sectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := h.ctrl.CreateSection(d, req.Name)
		if err != nil {
			abortDomainError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	})
	group.PUT("/:section_id", func(c *gin.Context) {
		var req sectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s, err := h.ctrl.RenameSection(d, c.Param("section_id"), req.Name)
		if err != nil {
			abortDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	})
	group.DELETE("/:section_id", func(c *gin.Context) {
		if err := h.ctrl.DeleteSection(d, c.Param("section_id")); err != nil {
			abortDomainError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	group.POST("/assign", func(c *gin.Context) {
		var req assignSectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.ctrl.AssignSection(d, req.EntityID, req.SectionID); err != nil {
			abortDomainError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
