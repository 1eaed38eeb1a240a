// internal/controller/auth_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/middleware"
	"github.com/adstation/campaign-backend/internal/service"
)

type AuthController struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b loginRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Email, validation.Required, is.Email),
		validation.Field(&b.Password, validation.Required),
	)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, user, err := c.AuthService.Login(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user loaded by the middleware.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(middleware.CurrentUser(r))
}
