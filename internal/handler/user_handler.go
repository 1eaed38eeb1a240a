// internal/handler/user_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/adstation/campaign-backend/internal/auth"
	"github.com/adstation/campaign-backend/internal/middleware"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/repository"
)

// UserHandler holds the dependencies for user-related HTTP handlers
type UserHandler struct {
	Repo repository.UserRepositoryInterface
}

// ListUsersHandler returns the users the viewer may see: super admins see
// everyone, everyone else sees their own company.
func (h *UserHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)

	var (
		users []*model.User
		err   error
	)
	if policy.ParseRole(viewer.Role) == policy.RoleSuperAdmin {
		users, err = h.Repo.List()
	} else {
		users, err = h.Repo.ListByCompany(viewer.Company)
	}
	if err != nil {
		http.Error(w, "failed to fetch users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": users})
}

type createUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Company      string `json:"company"`
	TeamLeaderID *int   `json:"team_leader_id"`
}

func (b createUserRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&b.Email, validation.Required, is.Email),
		validation.Field(&b.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&b.Role, validation.Required),
	)
}

// CreateUserHandler creates a user. Admin-only; agency admins can only create
// inside their own company. A team_leader_id pointing at a leader in another
// company is rejected up front instead of being stored as an anomaly.
func (h *UserHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)

	var body createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	role := policy.ParseRole(body.Role)
	if role == policy.RoleUnknown {
		http.Error(w, "unknown role: "+body.Role, http.StatusBadRequest)
		return
	}

	switch policy.ParseRole(viewer.Role) {
	case policy.RoleSuperAdmin:
	case policy.RoleAgencyAdmin:
		if body.Company != viewer.Company {
			http.Error(w, "cannot create users outside your company", http.StatusForbidden)
			return
		}
	default:
		http.Error(w, "only admins can create users", http.StatusForbidden)
		return
	}

	if body.Company == "" && role != policy.RoleSuperAdmin {
		http.Error(w, "company is required for this role", http.StatusBadRequest)
		return
	}

	if body.TeamLeaderID != nil {
		leader, err := h.Repo.GetByID(*body.TeamLeaderID)
		if err != nil {
			http.Error(w, "team leader not found", http.StatusBadRequest)
			return
		}
		if leader.Company != body.Company {
			http.Error(w, "team leader belongs to a different company", http.StatusBadRequest)
			return
		}
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user := &model.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Role:         string(role),
		Company:      body.Company,
		TeamLeaderID: body.TeamLeaderID,
		IsActive:     true,
	}
	if err := h.Repo.Create(user); err != nil {
		http.Error(w, "failed to create user: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}
