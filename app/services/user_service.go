package services

import (
	"context"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
)

// UserStore is the user service's view of account persistence.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Upsert(ctx context.Context, user models.User) error
	SetStatus(ctx context.Context, email, status string) error
	All(ctx context.Context) ([]models.User, error)
}

// UserService manages account profiles and the fraud flag.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Signup creates or refreshes the account record. Login flows call this
// on every session, so the write is an upsert keyed by email.
func (s *UserService) Signup(ctx context.Context, user models.User) error {
	if user.Email == "" || user.Name == "" {
		return apperr.Validation("email and name are required")
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	return s.users.Upsert(ctx, user)
}

// Get returns a profile by email.
func (s *UserService) Get(ctx context.Context, email string) (models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// All lists every account (admin surface).
func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetStatus marks an account active or fraud. Admin accounts cannot be
// marked fraudulent.
func (s *UserService) SetStatus(ctx context.Context, email, status string) error {
	if status != models.StatusActive && status != models.StatusFraud {
		return apperr.Validation("status must be active or fraud")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsAdmin() && status == models.StatusFraud {
		return apperr.Forbidden("an admin account cannot be marked fraud")
	}

	if err := s.users.SetStatus(ctx, email, status); err != nil {
		return err
	}
	logger.Info("user status changed", "email", email, "status", status)
	return nil
}
