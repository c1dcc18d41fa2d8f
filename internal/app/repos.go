package app

import (
	"gorm.io/gorm"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/repos"
)

type Repos struct {
	User            repos.UserRepo
	UserToken       repos.UserTokenRepo
	Character       repos.CharacterRepo
	Post            repos.PostRepo
	PlatformAccount repos.PlatformAccountRepo
	AutomationRule  repos.AutomationRuleRepo
	GenerationJob   repos.GenerationJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserToken:       repos.NewUserTokenRepo(db, log),
		Character:       repos.NewCharacterRepo(db, log),
		Post:            repos.NewPostRepo(db, log),
		PlatformAccount: repos.NewPlatformAccountRepo(db, log),
		AutomationRule:  repos.NewAutomationRuleRepo(db, log),
		GenerationJob:   repos.NewGenerationJobRepo(db, log),
	}
}
