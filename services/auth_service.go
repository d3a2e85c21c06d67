package services

import (
	"fmt"

	"backend/utils"
)

type AuthService struct {
	users *UserService
}

func NewAuthService(users *UserService) *AuthService {
	return &AuthService{users: users}
}

// AuthenticateUser checks credentials and issues a signed token. The token
// carries only the email; the auth middleware resolves role and membership
// from the user row on every request so tier changes take effect immediately.
func (s *AuthService) AuthenticateUser(email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	return utils.GenerateJWT(user.Email)
}
