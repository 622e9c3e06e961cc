// Package api assembles the HTTP surface: routes, middleware, and the
// websocket mount point.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	httpHandlers "github.com/creatorhub/engage/internal/api/http"
	"github.com/creatorhub/engage/internal/api/recovery"
	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/dashboard"
	"github.com/creatorhub/engage/internal/feed"
	"github.com/creatorhub/engage/internal/ledger"
	"github.com/creatorhub/engage/internal/notify"
	"github.com/creatorhub/engage/internal/store"
)

// Deps carries the wired services the router exposes.
type Deps struct {
	Store      store.Store
	Feed       *feed.Service
	Ledger     *ledger.Service
	Notify     *notify.Service
	Dashboard  *dashboard.Service
	Authorizer auth.Authorizer
	Logger     zerolog.Logger

	// WS handles websocket upgrades; it authenticates on its own
	// because the handshake carries the token in the query string.
	WS http.Handler
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware(deps.Logger))

	healthHandler := httpHandlers.NewHealthHandler(deps.Store)
	feedHandler := httpHandlers.NewFeedHandler(deps.Feed, deps.Ledger)
	engagementHandler := httpHandlers.NewEngagementHandler(deps.Ledger)
	notificationHandler := httpHandlers.NewNotificationHandler(deps.Notify)
	dashboardHandler := httpHandlers.NewDashboardHandler(deps.Dashboard, deps.Ledger)

	// Health endpoints, unauthenticated
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	if deps.WS != nil {
		router.Handle("/ws", deps.WS).Methods("GET")
	}

	// Everything else requires a valid bearer token. The user row is
	// provisioned on first contact: identities are issued externally,
	// so no registration endpoint exists to create it earlier.
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(deps.Authorizer))
	authed.Use(provisionActor(deps.Store))

	// Feed endpoints
	authed.HandleFunc("/feed", feedHandler.GetFeed).Methods("GET")
	authed.HandleFunc("/feed/save", feedHandler.SaveContent).Methods("POST")
	authed.HandleFunc("/feed/share", feedHandler.ShareContent).Methods("POST")
	authed.HandleFunc("/feed/report", feedHandler.ReportContent).Methods("POST")

	// Engagement endpoints
	authed.HandleFunc("/engage/login", engagementHandler.Login).Methods("POST")
	authed.HandleFunc("/profile", engagementHandler.UpdateProfile).Methods("PUT")

	// Notification endpoints
	authed.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	authed.HandleFunc("/notifications/read", notificationHandler.MarkRead).Methods("PUT")

	// Dashboard endpoints
	authed.HandleFunc("/dashboard", dashboardHandler.Summary).Methods("GET")
	authed.HandleFunc("/dashboard/saved", dashboardHandler.SavedContent).Methods("GET")
	authed.HandleFunc("/dashboard/admin", dashboardHandler.AdminOverview).Methods("GET")
	authed.HandleFunc("/dashboard/admin/credits/{userId}", dashboardHandler.AdjustCredits).Methods("PUT")

	return router
}

// provisionActor creates the backing user row for the authenticated
// actor if it does not exist yet. The insert is a no-op for known users.
func provisionActor(s store.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor := auth.ActorFromContext(r.Context()); actor != nil {
				if err := s.Users().Ensure(r.Context(), actor.UserID, actor.Role); err != nil {
					respond.WriteInternalError(w, "user provisioning failed")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
