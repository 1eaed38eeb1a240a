// internal/handler/campaign_children_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/adstation/campaign-backend/internal/errors"
	"github.com/adstation/campaign-backend/internal/middleware"
	"github.com/adstation/campaign-backend/internal/repository"
	"github.com/adstation/campaign-backend/internal/service"
)

// CampaignChildrenHandler serves the dependent records of a campaign. The
// children have no visibility rules of their own; the owning campaign's view
// decision gates everything here.
type CampaignChildrenHandler struct {
	Service          *service.CampaignService
	NotificationLogs repository.NotificationLogRepositoryInterface
}

func (h *CampaignChildrenHandler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	posts, err := h.Service.ListCampaignPosts(viewer, id)
	if err != nil {
		writeChildError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": posts})
}

func (h *CampaignChildrenHandler) ListOrderRequestsHandler(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	orders, err := h.Service.ListCampaignOrderRequests(viewer, id)
	if err != nil {
		writeChildError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": orders})
}

func (h *CampaignChildrenHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.GetCampaign(viewer, id); err != nil {
		writeChildError(w, err)
		return
	}
	logs, err := h.NotificationLogs.ListByCampaign(id)
	if err != nil {
		writeChildError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": logs})
}

func writeChildError(w http.ResponseWriter, err error) {
	var denied *appErrors.AuthorizationDenied
	if errors.As(err, &denied) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "forbidden", "reason": denied.Reason})
		return
	}
	var notFound *appErrors.ErrCampaignNotFound
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
