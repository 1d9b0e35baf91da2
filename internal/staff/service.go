package staff

import (
	"context"

	"compustore-be/internal/auth"
	"compustore-be/internal/customer"
	"compustore-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, customer.ErrInvalidCredentials
	}

	if !customer.CheckPasswordHash(password, u.PasswordHash) {
		return "", nil, customer.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to generate staff jwt",
			zap.Uint("staff_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	return token, u, nil
}
