package roadmap

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/vidyamithra/backend/internal/domain/roadmap"
	"github.com/vidyamithra/backend/pkg/apperror"
)

type GetRoadmapUseCase struct {
	repo domain.Repository
}

func NewGetRoadmapUseCase(repo domain.Repository) *GetRoadmapUseCase {
	return &GetRoadmapUseCase{repo: repo}
}

// Active returns the user's current roadmap, or a not-found error when none
// has been generated yet.
func (uc *GetRoadmapUseCase) Active(ctx context.Context, userID uuid.UUID) (*domain.Roadmap, error) {
	rm, err := uc.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", "active")
		}
		return nil, apperror.NewInternal("failed to load roadmap", err)
	}
	return rm, nil
}
