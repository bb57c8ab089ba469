package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntryRepo:    newPgxEntryRepository(dbPool),
		RuleRepo:     newPgxRuleRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
		CategoryRepo: newPgxCategoryRepository(dbPool),
	}
}
