package services

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/pennywise-app/pennywise-backend/internal/dto"
)

// UserSvcFacade manages users and credential verification.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// AuthenticateUser verifies username/password and returns the user.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade issues signed API tokens for authenticated users.
type TokenSvcFacade interface {
	GenerateToken(userID string) (string, error)
}
