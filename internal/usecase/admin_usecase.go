package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/repository"
)

// AdminUseCase serves the dashboard aggregates. Listing browse with admin
// filters goes through ListingUseCase.List with an admin-built query.
type AdminUseCase struct {
	users    repository.UserRepository
	listings repository.ListingRepository
	logger   *zap.Logger
}

func NewAdminUseCase(users repository.UserRepository, listings repository.ListingRepository, logger *zap.Logger) *AdminUseCase {
	return &AdminUseCase{users: users, listings: listings, logger: logger}
}

type Stats struct {
	Users     int64 `json:"users"`
	Lands     int64 `json:"lands"`
	Equipment int64 `json:"equipment"`
	Owners    int64 `json:"owners"`
	Leasers   int64 `json:"leasers"`
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.Users, err = uc.users.Count(ctx); err != nil {
		uc.logger.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("AdminUseCase.Stats: %w", err)
	}
	if stats.Lands, err = uc.listings.Count(ctx, entity.LandSpec); err != nil {
		uc.logger.Error("Failed to count lands", zap.Error(err))
		return nil, fmt.Errorf("AdminUseCase.Stats: %w", err)
	}
	if stats.Equipment, err = uc.listings.Count(ctx, entity.EquipmentSpec); err != nil {
		uc.logger.Error("Failed to count equipment", zap.Error(err))
		return nil, fmt.Errorf("AdminUseCase.Stats: %w", err)
	}
	if stats.Owners, err = uc.users.CountByRole(ctx, entity.RoleOwner); err != nil {
		uc.logger.Error("Failed to count owners", zap.Error(err))
		return nil, fmt.Errorf("AdminUseCase.Stats: %w", err)
	}
	if stats.Leasers, err = uc.users.CountByRole(ctx, entity.RoleLeaser); err != nil {
		uc.logger.Error("Failed to count leasers", zap.Error(err))
		return nil, fmt.Errorf("AdminUseCase.Stats: %w", err)
	}
	return &stats, nil
}
