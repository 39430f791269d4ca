package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvoiceNumberTaken),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrMissingDate),
		errors.Is(err, domain.ErrMissingDescription),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrMissingInvoiceNumber),
		errors.Is(err, domain.ErrMissingCustomer),
		errors.Is(err, domain.ErrInvalidInvoiceStatus),
		errors.Is(err, domain.ErrMissingItemName),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrSubtotalMismatch),
		errors.Is(err, domain.ErrNothingToExport),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrStaffRequiresOwner):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sessionFromRequest extracts the authenticated session placed in the
// request context by the auth middleware. A missing session means the
// route was wired without the middleware, which we treat as unauthorized
// rather than panicking.
func sessionFromRequest(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	session, ok := domain.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return nil, false
	}
	return session, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
