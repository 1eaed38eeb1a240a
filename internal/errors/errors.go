// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by login when the email/password pair
// does not check out.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrUserNotFound struct {
	UserID int
	Email  string
}

func (e *ErrUserNotFound) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("user %s not found", e.Email)
	}
	return fmt.Sprintf("user with ID %d not found", e.UserID)
}

func NewUserNotFound(id int) error {
	return &ErrUserNotFound{UserID: id}
}

// AuthorizationDenied carries the policy reason code so the HTTP layer can
// return an accurate 403 body instead of a generic one.
type AuthorizationDenied struct {
	Action string
	Reason string
}

func (e *AuthorizationDenied) Error() string {
	return fmt.Sprintf("not authorized to %s campaign: %s", e.Action, e.Reason)
}

func NewAuthorizationDenied(action, reason string) error {
	return &AuthorizationDenied{Action: action, Reason: reason}
}

// IntegrityViolation marks a cascade deletion step that failed partway. The
// whole transaction is rolled back when this is returned.
type IntegrityViolation struct {
	Table string
	Err   error
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("cascade deletion failed at %s: %v", e.Table, e.Err)
}

func (e *IntegrityViolation) Unwrap() error { return e.Err }
