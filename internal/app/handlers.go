package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/handlers"
	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/middleware"
	"github.com/novaluma/novaluma-backend/internal/server"
)

type Handlers struct {
	Healthcheck      *handlers.HealthcheckHandler
	Auth             *handlers.AuthHandler
	Characters       *handlers.CharactersHandler
	Posts            *handlers.PostsHandler
	PlatformAccounts *handlers.PlatformAccountsHandler
	Automation       *handlers.AutomationHandler
	Simulation       *handlers.SimulationHandler
	Jobs             *handlers.JobsHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, reposet Repos, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck:      handlers.NewHealthcheckHandler(db),
		Auth:             handlers.NewAuthHandler(serviceset.Auth),
		Characters:       handlers.NewCharactersHandler(log, reposet.Character, serviceset.Avatar),
		Posts:            handlers.NewPostsHandler(reposet.Post),
		PlatformAccounts: handlers.NewPlatformAccountsHandler(reposet.PlatformAccount),
		Automation:       handlers.NewAutomationHandler(reposet.AutomationRule, serviceset.Scheduler),
		Simulation:       handlers.NewSimulationHandler(serviceset.Collaboration, serviceset.Followers),
		Jobs:             handlers.NewJobsHandler(serviceset.Jobs, reposet.GenerationJob),
	}
}

func wireRouter(cfg Config, log *logger.Logger, handlerset Handlers, serviceset Services) *gin.Engine {
	log.Info("Wiring router...")
	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth)
	return server.NewRouter(server.RouterConfig{
		ServiceName:             cfg.ServiceName,
		AuthMiddleware:          authMiddleware,
		HealthcheckHandler:      handlerset.Healthcheck,
		AuthHandler:             handlerset.Auth,
		CharactersHandler:       handlerset.Characters,
		PostsHandler:            handlerset.Posts,
		PlatformAccountsHandler: handlerset.PlatformAccounts,
		AutomationHandler:       handlerset.Automation,
		SimulationHandler:       handlerset.Simulation,
		JobsHandler:             handlerset.Jobs,
	})
}
