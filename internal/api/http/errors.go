package http

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/creatorhub/engage/internal/api/respond"
	"github.com/creatorhub/engage/internal/ledger"
	"github.com/creatorhub/engage/internal/model"
)

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidationError(err):
		respond.WriteBadRequest(w, err.Error())
	case ledger.IsForbiddenError(err):
		respond.WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrDuplicateEngagement):
		respond.WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
