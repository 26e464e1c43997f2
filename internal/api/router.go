package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"timekeeper-backend/config"
	"timekeeper-backend/internal/core"
	"timekeeper-backend/internal/mw"
	"timekeeper-backend/internal/sound"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, ctrl *core.Controller, catalog *sound.Catalog, db *gorm.DB, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(ctrl, db, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// The sound catalog is static per process; everything else carries
		// live countdown state and must not be cached.
		api.GET("/sounds", caching, SoundCatalog(catalog))

		alarms := api.Group("/alarms")
		{
			alarms.GET("", handler.ListAlarms)
			alarms.POST("", handler.CreateAlarm)
			alarms.GET("/ringing", handler.AlarmRinging)
			alarms.GET("/:id", handler.GetAlarm)
			alarms.PUT("/:id", handler.UpdateAlarm)
			alarms.DELETE("/:id", handler.DeleteAlarm)
			alarms.POST("/:id/toggle", handler.ToggleAlarm)
			alarms.POST("/:id/dismiss", handler.DismissAlarm)
			alarms.POST("/:id/snooze", handler.SnoozeAlarm)
		}
		handler.sectionRoutes(api.Group("/alarm-sections"), core.DomainAlarm)

		timers := api.Group("/timers")
		{
			timers.GET("", handler.ListTimers)
			timers.POST("", handler.CreateTimer)
			timers.GET("/ringing", handler.TimerRinging)
			timers.GET("/pinned", handler.PinnedTimer)
			timers.GET("/:id", handler.GetTimer)
			timers.PUT("/:id", handler.UpdateTimer)
			timers.DELETE("/:id", handler.DeleteTimer)
			timers.POST("/:id/start", timerAction(ctrl.StartTimer))
			timers.POST("/:id/pause", timerAction(ctrl.PauseTimer))
			timers.POST("/:id/reset", timerAction(ctrl.ResetTimer))
			timers.POST("/:id/pin", timerAction(ctrl.PinTimer))
			timers.POST("/:id/dismiss", handler.DismissTimer)
			timers.POST("/:id/restart", handler.RestartTimer)
		}
		handler.sectionRoutes(api.Group("/timer-sections"), core.DomainTimer)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
