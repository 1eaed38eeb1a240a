// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/middleware"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

type createCampaignRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Budget       float64    `json:"budget"`
	ClientUserID *int       `json:"client_user_id"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

func (b createCampaignRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&b.Budget, validation.Min(0.0)),
	)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)

	var body createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(viewer, service.CreateCampaignInput{
		Name:         body.Name,
		Description:  body.Description,
		Budget:       body.Budget,
		ClientUserID: body.ClientUserID,
		StartDate:    body.StartDate,
		EndDate:      body.EndDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var month *policy.MonthFilter
	if y, _ := strconv.Atoi(r.URL.Query().Get("year")); y > 0 {
		m, _ := strconv.Atoi(r.URL.Query().Get("month"))
		if m >= 1 && m <= 12 {
			month = &policy.MonthFilter{Year: y, Month: time.Month(m)}
		}
	}

	campaigns, pagination, err := c.CampaignService.ListCampaigns(viewer, page, pageSize, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := campaignID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.GetCampaign(viewer, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

type updateCampaignRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Budget      *float64   `json:"budget"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (b updateCampaignRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&b.Budget, validation.Min(0.0)),
	)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := campaignID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body updateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.UpdateCampaign(viewer, id, service.UpdateCampaignInput{
		Name:        body.Name,
		Description: body.Description,
		Budget:      body.Budget,
		Status:      body.Status,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := campaignID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	result, err := c.CampaignService.DeleteCampaign(viewer, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (c *CampaignController) DuplicateCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := campaignID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	dup, err := c.CampaignService.DuplicateCampaign(viewer, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dup)
}

type reassignRequest struct {
	UserID int `json:"user_id"`
}

func (b reassignRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.UserID, validation.Required, validation.Min(1)),
	)
}

func (c *CampaignController) ReassignStaff(w http.ResponseWriter, r *http.Request) {
	c.reassign(w, r, c.CampaignService.ReassignStaff)
}

func (c *CampaignController) ReassignCreator(w http.ResponseWriter, r *http.Request) {
	c.reassign(w, r, c.CampaignService.ReassignCreator)
}

func (c *CampaignController) reassign(w http.ResponseWriter, r *http.Request, apply func(viewer *model.User, campaignID, userID int) error) {
	viewer := middleware.CurrentUser(r)
	id, err := campaignID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := apply(viewer, id, body.UserID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"campaign_id": id, "user_id": body.UserID})
}

func campaignID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// writeError maps service errors onto HTTP statuses; denials carry their
// reason code in the body.
func writeError(w http.ResponseWriter, err error) {
	var denied *appErrors.AuthorizationDenied
	if errors.As(err, &denied) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "forbidden",
			"reason": denied.Reason,
		})
		return
	}

	var campaignNotFound *appErrors.ErrCampaignNotFound
	var userNotFound *appErrors.ErrUserNotFound
	if errors.As(err, &campaignNotFound) || errors.As(err, &userNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var integrity *appErrors.IntegrityViolation
	if errors.As(err, &integrity) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}
