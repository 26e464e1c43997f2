package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"timekeeper-backend/internal/core"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ctrl    *core.Controller
	db      *gorm.DB
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(ctrl *core.Controller, db *gorm.DB, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		ctrl:    ctrl,
		db:      db,
		webpush: webpushOptions,
	}
}

// abortDomainError maps core errors onto HTTP status codes.
func abortDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrDomainRinging),
		errors.Is(err, core.ErrNotRinging),
		errors.Is(err, core.ErrLimitExceeded),
		errors.Is(err, core.ErrBuiltinImmutable),
		errors.Is(err, core.ErrInvalidState):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
