package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/vidyamithra/backend/internal/domain/user"
	"github.com/vidyamithra/backend/pkg/apperror"
	"github.com/vidyamithra/backend/pkg/auth"
	"github.com/vidyamithra/backend/pkg/logger"
)

type AuthUseCase struct {
	repo   domain.Repository
	jwt    *auth.JWTService
	logger logger.Logger
}

func NewAuthUseCase(repo domain.Repository, jwt *auth.JWTService, log logger.Logger) *AuthUseCase {
	return &AuthUseCase{repo: repo, jwt: jwt, logger: log}
}

type AuthResult struct {
	Token string       `json:"access_token"`
	User  *domain.User `json:"user"`
}

func (uc *AuthUseCase) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	if len(password) < 8 {
		return nil, apperror.NewInvalidInput("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Save(ctx, u); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewInternal("failed to create user", err)
	}

	token, err := uc.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, apperror.NewInternal("failed to issue token", err)
	}

	uc.logger.Info("User registered", zap.String("user_id", u.ID.String()))
	return &AuthResult{Token: token, User: u}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperror.NewUnauthorized("invalid email or password", nil)
		}
		return nil, apperror.NewInternal("failed to look up user", err)
	}
	if !u.IsActive {
		return nil, apperror.NewPermissionDenied("account is deactivated")
	}
	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid email or password", nil)
	}

	token, err := uc.jwt.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, apperror.NewInternal("failed to issue token", err)
	}

	uc.logger.Info("User logged in", zap.String("user_id", u.ID.String()))
	return &AuthResult{Token: token, User: u}, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, apperror.NewInternal("failed to load user", err)
	}
	return u, nil
}
