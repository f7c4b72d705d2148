package services

import (
	"context"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/auth"
)

// AuthService issues tokens for known accounts.
type AuthService struct {
	users interface {
		FindByEmail(ctx context.Context, email string) (models.User, error)
	}
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the password and returns a signed token carrying the
// account's email and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return "", apperr.Forbidden("invalid credentials")
		}
		return "", err
	}

	if user.Password == "" || !auth.CheckPassword(user.Password, password) {
		return "", apperr.Forbidden("invalid credentials")
	}

	token, err := auth.GenerateToken(user.Email, user.Role)
	if err != nil {
		return "", apperr.Internal("issue token", err)
	}
	return token, nil
}
