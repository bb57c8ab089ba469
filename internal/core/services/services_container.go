package services

import (
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	portssvc "github.com/pennywise-app/pennywise-backend/internal/core/ports/services"
	"github.com/pennywise-app/pennywise-backend/pkg/config"
)

// NewServiceContainer wires all services with their dependencies. The flag
// service is shared so every concern goes through the same read-modify-write
// path.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	flagService := NewFlagService(repos.EntryRepo)
	ruleService := NewRuleService(repos.RuleRepo)

	return &portssvc.ServiceContainer{
		Rule:      ruleService,
		Duplicate: NewDuplicateService(repos.EntryRepo, flagService),
		Transfer:  NewTransferService(repos.EntryRepo, flagService),
		Flag:      flagService,
		Similar:   NewSimilarityService(repos.EntryRepo, ruleService),
		Category:  NewCategoryService(repos.CategoryRepo, repos.EntryRepo, ruleService),
		User:      NewUserService(repos.UserRepo),
		Token:     NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiryDuration),
	}
}
