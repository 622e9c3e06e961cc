package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/dashboard"
	"github.com/creatorhub/engage/internal/ledger"
)

// DashboardHandler serves the dashboard read models and the admin
// credit adjustment.
type DashboardHandler struct {
	dashboard *dashboard.Service
	ledger    *ledger.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService *dashboard.Service, ledgerService *ledger.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService, ledger: ledgerService}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	sum, err := h.dashboard.Summary(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sum)
}

// SavedContent handles GET /api/dashboard/saved
func (h *DashboardHandler) SavedContent(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	saved, err := h.dashboard.SavedContent(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"saved": saved})
}

// AdminOverview handles GET /api/dashboard/admin
func (h *DashboardHandler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if !actor.IsAdmin() {
		respond.WriteForbidden(w, "admin role required")
		return
	}

	stats, err := h.dashboard.AdminOverview(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}

// AdjustCredits handles PUT /api/dashboard/admin/credits/{userId}
func (h *DashboardHandler) AdjustCredits(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	targetUserID := mux.Vars(r)["userId"]

	var req struct {
		Credits *int64 `json:"credits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Credits == nil || *req.Credits < 0 {
		respond.WriteBadRequest(w, "credits must be a non-negative number")
		return
	}

	res, err := h.ledger.AdjustCredits(r.Context(), actor.UserID, targetUserID, *req.Credits)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
