package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/ledger"
)

// EngagementHandler serves the non-feed engagement endpoints: the daily
// login award and profile updates.
type EngagementHandler struct {
	ledger *ledger.Service
}

// NewEngagementHandler creates a new engagement handler.
func NewEngagementHandler(ledgerService *ledger.Service) *EngagementHandler {
	return &EngagementHandler{ledger: ledgerService}
}

// Login handles POST /api/engage/login. Called by the frontend after a
// session is established; idempotent within a calendar day.
func (h *EngagementHandler) Login(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	res, err := h.ledger.AwardLogin(r.Context(), actor.UserID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// UpdateProfile handles PUT /api/profile
func (h *EngagementHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req struct {
		Username *string `json:"username,omitempty"`
		Bio      *string `json:"bio,omitempty"`
		Avatar   *string `json:"avatar,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	res, err := h.ledger.CompleteProfile(r.Context(), actor.UserID, ledger.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
