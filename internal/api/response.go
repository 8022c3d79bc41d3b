package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/commerce-ledger/internal/inventory"
	"github.com/example/commerce-ledger/internal/ledger"
	"github.com/example/commerce-ledger/internal/posting"
	"github.com/example/commerce-ledger/internal/security"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	cid := security.CorrelationIDFromContext(r.Context())
	if cid != "" {
		w.Header().Set(security.CorrelationIDHeader, cid)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the error taxonomy onto HTTP statuses: missing or
// malformed input is 400, an unknown account or count 404, an illegal
// lifecycle transition 409, an unbalanced entry 422. Anything else is an
// infrastructure failure and surfaces as an opaque 500; the wrapped cause
// stays server-side.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		insufficient  *posting.InsufficientDataError
		invalidInput  *posting.InvalidInputError
		invalidLine   *ledger.InvalidLineError
		unknownAcct   *ledger.UnknownAccountError
		countNotFound *posting.CountNotFoundError
		invalidState  *inventory.InvalidStateError
		imbalanced    *ledger.ImbalancedEntryError
	)

	switch {
	case errors.As(err, &insufficient), errors.As(err, &invalidInput), errors.As(err, &invalidLine):
		security.WriteJSONErrorDetail(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.As(err, &unknownAcct):
		security.WriteJSONErrorDetail(w, r, http.StatusNotFound, "unknown_account", err.Error())
	case errors.As(err, &countNotFound):
		security.WriteJSONErrorDetail(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &invalidState):
		security.WriteJSONErrorDetail(w, r, http.StatusConflict, "invalid_state", err.Error())
	case errors.As(err, &imbalanced):
		security.WriteJSONErrorDetail(w, r, http.StatusUnprocessableEntity, "unbalanced_entry", err.Error())
	default:
		security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
	}
}
