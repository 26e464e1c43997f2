package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timekeeper-backend/internal/core"
)

type alarmRequest struct {
	Title     string `json:"title"`
	Hour      *int   `json:"hour" binding:"required"`
	Minute    *int   `json:"minute" binding:"required"`
	Sound     string `json:"sound"`
	SectionID string `json:"sectionId"`
}

// ListAlarms handles GET /api/alarms.
func (h *Handler) ListAlarms(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Alarms())
}

// GetAlarm handles GET /api/alarms/:id.
func (h *Handler) GetAlarm(c *gin.Context) {
	a, ok := h.ctrl.GetAlarm(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "alarm not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAlarm handles POST /api/alarms.
func (h *Handler) CreateAlarm(c *gin.Context) {
	var req alarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.ctrl.CreateAlarm(core.CreateAlarmParams{
		Title:     req.Title,
		Hour:      *req.Hour,
		Minute:    *req.Minute,
		Sound:     req.Sound,
		SectionID: req.SectionID,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAlarm handles PUT /api/alarms/:id.
func (h *Handler) UpdateAlarm(c *gin.Context) {
	var req core.UpdateAlarmParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.ctrl.UpdateAlarm(c.Param("id"), req)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAlarm handles DELETE /api/alarms/:id.
func (h *Handler) DeleteAlarm(c *gin.Context) {
	if err := h.ctrl.DeleteAlarm(c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleAlarm handles POST /api/alarms/:id/toggle.
func (h *Handler) ToggleAlarm(c *gin.Context) {
	a, err := h.ctrl.ToggleAlarm(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DismissAlarm handles POST /api/alarms/:id/dismiss.
func (h *Handler) DismissAlarm(c *gin.Context) {
	if err := h.ctrl.DismissAlarm(c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SnoozeAlarm handles POST /api/alarms/:id/snooze.
func (h *Handler) SnoozeAlarm(c *gin.Context) {
	snoozed, err := h.ctrl.SnoozeAlarm(c.Param("id"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snoozed)
}

// AlarmRinging handles GET /api/alarms/ringing.
func (h *Handler) AlarmRinging(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ringing": h.ctrl.IsDomainRinging(core.DomainAlarm),
		"entries": h.ctrl.Ringing(core.DomainAlarm),
	})
}
