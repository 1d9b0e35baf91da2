package customer

import (
	"context"
	"errors"
	"strings"

	"compustore-be/internal/auth"
	"compustore-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type Service interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (string, *Customer, error)
	Login(ctx context.Context, email, password string) (string, *Customer, error)
	Get(ctx context.Context, id uint) (*Customer, error)
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]Customer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, firstName, lastName, email, password string) (string, *Customer, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	c := &Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		log.Error("failed to create customer", zap.String("email", email), zap.Error(err))
		if strings.Contains(err.Error(), "customers_email_key") {
			return "", nil, ErrEmailExists
		}
		return "", nil, err
	}

	token, err := auth.GenerateToken(c.ID, email, auth.RoleCustomer)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("customer_id", c.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("customer registered",
		zap.Uint("customer_id", c.ID),
		zap.String("email", email),
	)

	return token, c, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Customer, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, c.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(c.ID, email, auth.RoleCustomer)
	if err != nil {
		return "", nil, err
	}
	return token, c, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SoftDelete(ctx context.Context, id uint) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}
