package service_test

import (
	"errors"
	"testing"

	"github.com/adstation/campaign-backend/internal/auth"
	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/service"
)

func TestLoginIssuesParsableToken(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userRepo := &MockUserRepo{users: []model.User{
		{ID: 42, Email: "staff@acme.test", PasswordHash: hash, Role: "STAFF", Company: "Acme", IsActive: true},
	}}
	svc := &service.AuthService{UserRepo: userRepo, JWTSecret: "test-secret"}

	token, user, err := svc.Login("staff@acme.test", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 42 {
		t.Errorf("user.ID = %d, want 42", user.ID)
	}

	userID, err := auth.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != 42 {
		t.Errorf("token subject = %d, want 42", userID)
	}
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userRepo := &MockUserRepo{users: []model.User{
		{ID: 1, Email: "active@acme.test", PasswordHash: hash, Role: "STAFF", IsActive: true},
		{ID: 2, Email: "disabled@acme.test", PasswordHash: hash, Role: "STAFF", IsActive: false},
	}}
	svc := &service.AuthService{UserRepo: userRepo, JWTSecret: "test-secret"}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "ghost@acme.test", "secret123"},
		{"wrong password", "active@acme.test", "wrong"},
		{"disabled account", "disabled@acme.test", "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(tc.email, tc.password)
			if !errors.Is(err, appErrors.ErrInvalidCredentials) {
				t.Errorf("got %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
