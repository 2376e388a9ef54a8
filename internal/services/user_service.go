package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"billingBack/internal/models"
)

// AuthService logs staff and customers in and issues their tokens.
type AuthService struct {
	Users     CredentialStore
	Customers CustomerStore
	Tokens    TokenIssuer
}

func (s *AuthService) AdminLogin(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	cred, err := s.check(ctx, s.Users.GetAdminByUsername, req)
	if err != nil {
		return models.LoginResponse{}, err
	}
	token, err := s.Tokens.NewAccessToken(cred.ID, models.RoleAdmin, cred.Username)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return models.LoginResponse{
		Success: true,
		Token:   token,
		Role:    models.RoleAdmin,
		User:    &models.AdminUser{UserID: cred.ID, Username: cred.Username},
	}, nil
}

func (s *AuthService) CustomerLogin(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	cred, err := s.check(ctx, s.Users.GetCustomerByUsername, req)
	if err != nil {
		return models.LoginResponse{}, err
	}
	customer, err := s.Customers.Get(ctx, cred.ID)
	if err != nil {
		return models.LoginResponse{}, err
	}
	token, err := s.Tokens.NewAccessToken(cred.ID, models.RoleCustomer, cred.Username)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return models.LoginResponse{
		Success:  true,
		Token:    token,
		Role:     models.RoleCustomer,
		Customer: &customer,
	}, nil
}

func (s *AuthService) check(ctx context.Context, lookup func(context.Context, string) (models.Credential, error), req models.LoginRequest) (models.Credential, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return models.Credential{}, models.ErrInvalidCredentials
	}
	cred, err := lookup(ctx, username)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Credential{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Credential{}, err
	}
	if !PasswordMatches(cred.Secret, req.Password) {
		return models.Credential{}, models.ErrInvalidCredentials
	}
	return cred, nil
}

// PasswordMatches accepts bcrypt hashes and, for rows seeded before hashing was
// introduced, plain stored passwords.
func PasswordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
