package app

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/clients/gcp"
	"github.com/novaluma/novaluma-backend/internal/clients/openai"
	redisclient "github.com/novaluma/novaluma-backend/internal/clients/redis"
	"github.com/novaluma/novaluma-backend/internal/clients/social"
	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	Avatar services.AvatarService

	Compatibility services.CompatibilityScorer
	Decision      services.EngagementDecisionEngine
	RateLimit     services.RateLimitGuard
	Timing        services.HumanTimingService
	Behavior      services.BehaviorRandomizer
	Composer      services.PersonaComposer
	Scheduler     services.AutomationSchedulerService
	Collaboration services.CollaborationService
	Followers     services.FollowerSimulationService
	Jobs          services.GenerationJobService

	Bucket  services.BucketService
	Windows services.ExecutionWindowStore
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// rand.Rand is not safe for concurrent use and each stochastic service
	// locks only its own rng, so every service gets its own source.
	seed := time.Now().UnixNano()
	newRNG := func() *rand.Rand {
		seed++
		return rand.New(rand.NewSource(seed))
	}

	profile := services.DefaultBehaviorProfile()
	if cfg.BehaviorProfilePath != "" {
		loaded, err := services.LoadBehaviorProfile(cfg.BehaviorProfilePath)
		if err != nil {
			log.Warn("Behavior profile load failed, using defaults", "path", cfg.BehaviorProfilePath, "error", err)
		} else {
			profile = loaded
		}
	}

	// Rolling windows live in redis when available so rate limits hold
	// across restarts and replicas.
	var windows services.ExecutionWindowStore
	if redisWindows, err := redisclient.NewWindowStore(log); err != nil {
		log.Warn("Redis window store unavailable, using in-memory windows", "error", err)
		windows = services.NewMemoryWindowStore()
	} else {
		windows = redisWindows
	}

	var bucket services.BucketService
	if gcsBucket, err := gcp.NewBucketService(log); err != nil {
		log.Warn("Could not init BucketService", "error", err)
	} else {
		bucket = gcsBucket
	}

	var generator services.TextGenerator
	if openaiClient, err := openai.NewClient(log); err != nil {
		log.Warn("Could not init OpenAIClient, persona text falls back to templates", "error", err)
	} else {
		generator = openaiClient
	}

	// Live platform adapters plug in here; until one exists the dry-run
	// client keeps the scheduler operational either way.
	if !cfg.SocialDryRun {
		log.Warn("No live social client configured, using dry-run client")
	}
	dryRun := social.NewDryRunClient(log, cfg.SocialPlatform)
	var engager services.Engager = dryRun
	var publisher services.Publisher = dryRun

	compatibility := services.NewCompatibilityService(log)
	decision := services.NewEngagementDecisionEngine(log, newRNG())
	rateLimit := services.NewRateLimitGuard(log, windows)
	timing := services.NewHumanTimingService(log, profile, newRNG())
	behavior := services.NewBehaviorRandomizer(log, profile, newRNG())
	composer := services.NewPersonaComposer(log, generator, newRNG())

	var avatar services.AvatarService
	if bucket != nil {
		svc, err := services.NewAvatarService(db, log, reposet.Character, bucket)
		if err != nil {
			log.Warn("Could not init AvatarService", "error", err)
		} else {
			avatar = svc
		}
	}

	scheduler := services.NewAutomationSchedulerService(
		db, log,
		reposet.AutomationRule,
		reposet.PlatformAccount,
		reposet.Character,
		rateLimit,
		timing,
		behavior,
		composer,
		engager,
		publisher,
		windows,
	)
	collaboration := services.NewCollaborationService(db, log, reposet.Character, reposet.Post, compatibility, decision)
	followers := services.NewFollowerSimulationService(db, log, reposet.Post, newRNG())
	jobs := services.NewGenerationJobService(db, log, reposet.GenerationJob)
	auth := services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return Services{
		Auth:          auth,
		Avatar:        avatar,
		Compatibility: compatibility,
		Decision:      decision,
		RateLimit:     rateLimit,
		Timing:        timing,
		Behavior:      behavior,
		Composer:      composer,
		Scheduler:     scheduler,
		Collaboration: collaboration,
		Followers:     followers,
		Jobs:          jobs,
		Bucket:        bucket,
		Windows:       windows,
	}
}
