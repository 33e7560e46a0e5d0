package router

import (
	"net/http"

	"github.com/konman95/mainst.ai/internal/config"
	"github.com/konman95/mainst.ai/internal/handlers"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cover         *handlers.CoverHandler
	Actions       *handlers.ActionHandler
	Notifications *handlers.NotificationHandler
	Config        *handlers.ConfigHandler
	Contacts      *handlers.ContactHandler
	Chat          *handlers.ChatHandler
	Dashboard     *handlers.DashboardHandler
	Health        *handlers.HealthHandler
	Cron          *handlers.CronHandler
}

// Router wraps the gin engine with the API's middleware chain.
type Router struct {
	engine *gin.Engine
}

// NewRouter mounts all routes. /health and /cron/run stay outside the
// auth middleware: health is a probe target and cron authenticates with
// its own shared secret.
func NewRouter(cfg *config.Config, h Handlers) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.SecurityHeadersMiddleware())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	engine.Use(middleware.RequestLogMiddleware())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	engine.GET("/health", h.Health.Check)
	engine.POST("/cron/run", h.Cron.Run)

	api := engine.Group("/", middleware.AuthMiddleware(cfg))
	{
		api.POST("/ownercover/handleInbound", h.Cover.HandleInbound)
		api.GET("/ownercover/settings", h.Cover.GetSettings)
		api.POST("/ownercover/settings", h.Cover.SetSettings)
		api.GET("/decisions", h.Cover.ListDecisions)

		api.GET("/config/businessProfile", h.Config.GetBusinessProfile)
		api.POST("/config/businessProfile", h.Config.SetBusinessProfile)
		// Alias kept for the dashboard's older profile screen.
		api.GET("/profile", h.Config.GetBusinessProfile)
		api.POST("/profile", h.Config.SetBusinessProfile)

		api.GET("/contacts", h.Contacts.List)
		api.POST("/contacts", h.Contacts.Create)
		api.GET("/threads", h.Contacts.ListThreads)
		api.GET("/threads/:id/messages", h.Contacts.ListMessages)

		api.POST("/chat", h.Chat.Chat)
		api.GET("/chat/history", h.Chat.History)
		api.POST("/chat/manual", h.Chat.Manual)

		api.GET("/dashboard/summary", h.Dashboard.Summary)
		api.POST("/outcomes", h.Dashboard.RecordOutcome)
		api.GET("/outcomes", h.Dashboard.ListOutcomes)

		api.GET("/auditLog", h.Actions.AuditLog)
		api.GET("/notifications", h.Notifications.List)
		api.POST("/notifications", h.Notifications.UpdateStatus)

		// Approvals and routing changes are limited to owners and managers.
		elevated := api.Group("/", middleware.RequireRole(middleware.RoleOwner, middleware.RoleManager))
		{
			elevated.GET("/actionQueue", h.Actions.List)
			elevated.POST("/actionQueue/approve", h.Actions.Approve)
			elevated.GET("/notifications/routing", h.Notifications.GetRouting)
			elevated.POST("/notifications/routing", h.Notifications.SetRouting)
		}
	}

	return &Router{engine: engine}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}
