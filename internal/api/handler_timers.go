package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timekeeper-backend/internal/core"
	"timekeeper-backend/internal/model"
)

// Durations cross the API as milliseconds; the core works in time.Duration.
type timerRequest struct {
	Title      string     `json:"title"`
	Type       string     `json:"type" binding:"required"`
	Sound      string     `json:"sound"`
	SectionID  string     `json:"sectionId"`
	DurationMs int64      `json:"durationMs"`
	TargetDate *time.Time `json:"targetDate"`
}

type timerUpdateRequest struct {
	Title      *string    `json:"title"`
	Sound      *string    `json:"sound"`
	SectionID  *string    `json:"sectionId"`
	DurationMs *int64     `json:"durationMs"`
	TargetDate *time.Time `json:"targetDate"`
}

// ListTimers handles GET /api/timers.
func (h *Handler) ListTimers(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Timers())
}

// GetTimer handles GET /api/timers/:id.
func (h *Handler) GetTimer(c *gin.Context) {
	t, ok := h.ctrl.GetTimer(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "timer not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// PinnedTimer handles GET /api/timers/pinned.
func (h *Handler) PinnedTimer(c *gin.Context) {
	t, ok := h.ctrl.PinnedTimer()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no timers"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTimer handles POST /api/timers.
func (h *Handler) CreateTimer(c *gin.Context) {
	var req timerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.ctrl.CreateTimer(core.CreateTimerParams{
		Title:      req.Title,
		Type:       model.TimerType(req.Type),
		Sound:      req.Sound,
		SectionID:  req.SectionID,
		Duration:   time.Duration(req.DurationMs) * time.Millisecond,
		TargetDate: req.TargetDate,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTimer handles PUT /api/timers/:id.
func (h *Handler) UpdateTimer(c *gin.Context) {
	var req timerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := core.UpdateTimerParams{
		Title:      req.Title,
		Sound:      req.Sound,
		SectionID:  req.SectionID,
		TargetDate: req.TargetDate,
	}
	if req.DurationMs != nil {
		d := time.Duration(*req.DurationMs) * time.Millisecond
		params.Duration = &d
	}
	t, err := h.ctrl.UpdateTimer(c.Param("id"), params)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTimer handles DELETE /api/timers/:id.
func (h *Handler) DeleteTimer(c *gin.Context) {
	if err := h.ctrl.DeleteTimer(c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// timerAction adapts the uniform (id) -> (timer, error) operations.
func timerAction(op func(string) (model.Timer, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := op(c.Param("id"))
		if err != nil {
			abortDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// DismissTimer handles POST /api/timers/:id/dismiss.
func (h *Handler) DismissTimer(c *gin.Context) {
	if err := h.ctrl.DismissTimer(c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RestartTimer handles POST /api/timers/:id/restart.
func (h *Handler) RestartTimer(c *gin.Context) {
	if err := h.ctrl.RestartTimer(c.Param("id")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TimerRinging handles GET /api/timers/ringing.
func (h *Handler) TimerRinging(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ringing": h.ctrl.IsDomainRinging(core.DomainTimer),
		"entries": h.ctrl.Ringing(core.DomainTimer),
	})
}
