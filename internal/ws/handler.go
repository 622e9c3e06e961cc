package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/creatorhub/engage/internal/auth"
)

// maxConnsPerUser caps connections per user so one browser cannot
// exhaust the hub.
const maxConnsPerUser = 10

// Handler upgrades authenticated requests to websocket connections and
// attaches them to the hub.
type Handler struct {
	hub      *Hub
	authz    auth.Authorizer
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates the upgrade handler. Origin checking is left to
// the deployment's edge; same-origin enforcement here would break the
// local dev setup where the frontend runs on another port.
func NewHandler(hub *Hub, authz auth.Authorizer, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:   hub,
		authz: authz,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, err := h.authz.Authorize(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.hub.ConnectionCount(actor.UserID) >= maxConnsPerUser {
		http.Error(w, "Connection limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("remoteAddr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	newClient(actor.UserID, h.hub, conn, h.logger).start()
}
