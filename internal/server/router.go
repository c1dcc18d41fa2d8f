package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/novaluma/novaluma-backend/internal/handlers"
	"github.com/novaluma/novaluma-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName string

	AuthMiddleware *middleware.AuthMiddleware

	HealthcheckHandler      *handlers.HealthcheckHandler
	AuthHandler             *handlers.AuthHandler
	CharactersHandler       *handlers.CharactersHandler
	PostsHandler            *handlers.PostsHandler
	PlatformAccountsHandler *handlers.PlatformAccountsHandler
	AutomationHandler       *handlers.AutomationHandler
	SimulationHandler       *handlers.SimulationHandler
	JobsHandler             *handlers.JobsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Characters
	protected.POST("/characters", cfg.CharactersHandler.Create)
	protected.GET("/characters", cfg.CharactersHandler.List)
	protected.GET("/characters/:id", cfg.CharactersHandler.GetByID)

	// Posts
	protected.POST("/posts", cfg.PostsHandler.Create)
	protected.GET("/posts", cfg.PostsHandler.ListPublished)
	protected.GET("/posts/:id", cfg.PostsHandler.GetByID)
	protected.POST("/posts/:id/publish", cfg.PostsHandler.Publish)

	// Platform accounts
	protected.POST("/platform-accounts", cfg.PlatformAccountsHandler.Create)
	protected.GET("/platform-accounts", cfg.PlatformAccountsHandler.ListByCharacter)

	// Automation
	protected.POST("/automation/rules", cfg.AutomationHandler.CreateRule)
	protected.GET("/automation/rules", cfg.AutomationHandler.ListRules)
	protected.GET("/automation/rules/:id", cfg.AutomationHandler.GetRule)
	protected.POST("/automation/rules/:id/toggle", cfg.AutomationHandler.ToggleRule)
	protected.POST("/automation/rules/:id/execute", cfg.AutomationHandler.ExecuteRule)

	// Simulation
	protected.POST("/simulation/interaction", cfg.SimulationHandler.SimulateInteraction)
	protected.POST("/simulation/character", cfg.SimulationHandler.SimulateForCharacter)
	protected.POST("/simulation/network", cfg.SimulationHandler.SimulateNetwork)
	protected.POST("/simulation/organic", cfg.SimulationHandler.AccrueOrganic)

	// Generation jobs
	protected.POST("/jobs", cfg.JobsHandler.Enqueue)
	protected.GET("/jobs", cfg.JobsHandler.ListRecent)
	protected.GET("/jobs/:id", cfg.JobsHandler.GetByID)
	protected.POST("/jobs/:id/cancel", cfg.JobsHandler.Cancel)

	return router
}

func corsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS"))
	if raw == "" {
		return []string{"http://localhost:3000", "http://localhost:5173"}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
