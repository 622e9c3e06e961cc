package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/notify"
)

// NotificationHandler serves the durable notification store.
type NotificationHandler struct {
	notify *notify.Service
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notifyService *notify.Service) *NotificationHandler {
	return &NotificationHandler{notify: notifyService}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	list, err := h.notify.ListRecent(r.Context(), actor.UserID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": list})
}

// MarkRead handles PUT /api/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	if err := h.notify.MarkRead(r.Context(), actor.UserID, req.IDs); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"updated": true})
}
