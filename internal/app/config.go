package app

import (
	"time"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/utils"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	BehaviorProfilePath string
	SocialDryRun        bool
	SocialPlatform      string

	Port string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	return Config{
		ServiceName:         utils.GetEnv("SERVICE_NAME", "novaluma-backend", log),
		Environment:         utils.GetEnv("ENVIRONMENT", "development", log),
		Version:             utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:        jwtSecretKey,
		AccessTokenTTL:      time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:     time.Duration(refreshTokenTTLSeconds) * time.Second,
		BehaviorProfilePath: utils.GetEnv("BEHAVIOR_PROFILE_PATH", "", log),
		SocialDryRun:        utils.GetEnvAsBool("SOCIAL_DRY_RUN", true, log),
		SocialPlatform:      utils.GetEnv("SOCIAL_PLATFORM", "instagram", log),
		Port:                utils.GetEnv("PORT", "8080", log),
	}
}
