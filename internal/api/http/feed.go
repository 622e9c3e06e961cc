package http

import (
	"encoding/json"
	"net/http"

	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/feed"
	"github.com/creatorhub/engage/internal/ledger"
)

// FeedHandler serves the aggregated feed and the engagement actions
// taken on feed items (thin transport layer).
type FeedHandler struct {
	feed   *feed.Service
	ledger *ledger.Service
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feedService *feed.Service, ledgerService *ledger.Service) *FeedHandler {
	return &FeedHandler{feed: feedService, ledger: ledgerService}
}

// GetFeed handles GET /api/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	res, err := h.feed.GetFeed(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// SaveContent handles POST /api/feed/save
func (h *FeedHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req struct {
		ContentID   string  `json:"contentId"`
		Source      string  `json:"source"`
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
		URL         string  `json:"url"`
		Image       *string `json:"image,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	res, err := h.ledger.SaveContent(r.Context(), actor.UserID, ledger.SaveContentRequest{
		ContentID:   req.ContentID,
		Source:      req.Source,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Image:       req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, res)
}

// ShareContent handles POST /api/feed/share
func (h *FeedHandler) ShareContent(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req struct {
		ContentID string `json:"contentId"`
		Source    string `json:"source"`
		Title     string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	res, err := h.ledger.ShareContent(r.Context(), actor.UserID, ledger.ContentRef{
		ContentID: req.ContentID,
		Source:    req.Source,
		Title:     req.Title,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// ReportContent handles POST /api/feed/report
func (h *FeedHandler) ReportContent(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	var req struct {
		ContentID   string  `json:"contentId"`
		Source      string  `json:"source"`
		Reason      string  `json:"reason"`
		Description *string `json:"description,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	res, err := h.ledger.ReportContent(r.Context(), actor.UserID, ledger.ReportContentRequest{
		ContentID:   req.ContentID,
		Source:      req.Source,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, res)
}
