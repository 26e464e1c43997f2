package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timekeeper-backend/internal/sound"
)

// SoundCatalog serves GET /api/sounds from a sound catalog. The handler is
// defined as a closure so the static catalog endpoint can sit behind the
// response cache middleware.
func SoundCatalog(catalog *sound.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sounds":   catalog.List(),
			"fallback": catalog.FallbackID(),
		})
	}
}
