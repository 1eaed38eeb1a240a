// internal/service/auth_service.go
package service

import (
	"errors"

	"github.com/adstation/campaign-backend/internal/auth"
	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/repository"
)

type AuthService struct {
	UserRepo  repository.UserRepositoryInterface
	JWTSecret string
}

// Login verifies the credentials and returns a signed token with the user.
// Not-found and bad-password collapse into one error so the response does not
// leak which emails exist.
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.GetByEmail(email)
	if err != nil {
		var notFound *appErrors.ErrUserNotFound
		if errors.As(err, &notFound) {
			return "", nil, appErrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, appErrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, appErrors.ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.JWTSecret, user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
