package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	"github.com/pennywise-app/pennywise-backend/internal/middleware"
)

// FlagService owns every mutation of an entry's flag bag. Callers describe the
// change as a mutation of the loaded bag; the service handles the load, the
// ownership check and the write so the exclusion pairing invariant can only be
// touched through the domain mark/clear methods.
type FlagService struct {
	entryRepo portsrepo.EntryRepositoryFacade
}

func NewFlagService(entryRepo portsrepo.EntryRepositoryFacade) *FlagService {
	return &FlagService{entryRepo: entryRepo}
}

// UpdateFlags loads the entry's current bag, applies mutate, and persists the
// result. An unknown entry id, or one owned by another user, is a silent
// no-op: the method returns (false, nil) and nothing is written. Flag
// mutations must never leak whether a foreign row exists.
func (s *FlagService) UpdateFlags(ctx context.Context, userID string, kind domain.EntryKind, entryID string, mutate func(*domain.TransactionFlags)) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	flags, err := s.entryRepo.GetFlags(ctx, userID, kind, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Flag update skipped, entry not found for user", slog.String("entry_id", entryID))
			return false, nil
		}
		logger.Error("Failed to load flags", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return false, fmt.Errorf("failed to load flags: %w", err)
	}

	mutate(flags)

	updated, err := s.entryRepo.UpdateFlags(ctx, userID, kind, entryID, *flags)
	if err != nil {
		logger.Error("Failed to persist flags", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return false, fmt.Errorf("failed to persist flags: %w", err)
	}
	return updated, nil
}

// SetManualExclusion excludes the entry from totals at the user's request.
func (s *FlagService) SetManualExclusion(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error {
	_, err := s.UpdateFlags(ctx, userID, kind, entryID, func(f *domain.TransactionFlags) {
		f.MarkManualExclusion()
	})
	return err
}

// ClearManualExclusion removes a manual exclusion. Exclusions recorded by the
// duplicate or transfer concerns are left intact.
func (s *FlagService) ClearManualExclusion(ctx context.Context, userID string, kind domain.EntryKind, entryID string) error {
	_, err := s.UpdateFlags(ctx, userID, kind, entryID, func(f *domain.TransactionFlags) {
		f.ClearManualExclusion()
	})
	return err
}
