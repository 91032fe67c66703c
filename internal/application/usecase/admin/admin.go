package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/vidyamithra/backend/internal/domain/user"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/logger"
)

type AdminUseCase struct {
	users  domain.Repository
	logger logger.Logger
}

func NewAdminUseCase(users domain.Repository, log logger.Logger) *AdminUseCase {
	return &AdminUseCase{users: users, logger: log}
}

func (uc *AdminUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := uc.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.NewInternal("failed to list users", err)
	}
	return users, nil
}

func (uc *AdminUseCase) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := uc.users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return apperror.NewNotFound("user", id.String())
		}
		return apperror.NewInternal("failed to update user", err)
	}
	uc.logger.Info("User active flag changed", zap.String("user_id", id.String()), zap.Bool("active", active))
	return nil
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := uc.users.Stats(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to compute stats", err)
	}
	return stats, nil
}
