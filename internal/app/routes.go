package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/middleware"
	"github.com/kai-os/platform/internal/modules/auth"
	"github.com/kai-os/platform/internal/modules/host"
	"github.com/kai-os/platform/internal/modules/user"
	"github.com/kai-os/platform/internal/modules/webhook"
	"github.com/kai-os/platform/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	st := a.store
	authMW := middleware.Auth(st)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "kai-os-platform",
		"version": "0.2.0",
		"about":   "digital host builder platform",
	}

	api := r.Group("/api")

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})
	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "dataDir": st.Dir()})
	})

	// Webhook registry first: user and host mutations dispatch through it.
	hookSvc := webhook.NewService(st, a.logger)
	webhook.NewHandler(hookSvc).RegisterRoutes(api, authMW)

	userSvc := user.NewService(st, hookSvc)
	user.NewHandler(userSvc).RegisterRoutes(api)

	host.NewHandler(host.NewService(st, hookSvc)).RegisterRoutes(api)

	auth.NewHandler(st, userSvc).RegisterRoutes(api, authMW)
}
