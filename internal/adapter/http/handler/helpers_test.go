package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"invoice not found", domain.ErrInvoiceNotFound, http.StatusNotFound},
		{"invoice number taken", domain.ErrInvoiceNumberTaken, http.StatusConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid kind", domain.ErrInvalidKind, http.StatusBadRequest},
		{"missing date", domain.ErrMissingDate, http.StatusBadRequest},
		{"subtotal mismatch", domain.ErrSubtotalMismatch, http.StatusBadRequest},
		{"nothing to export", domain.ErrNothingToExport, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestSessionFromRequestMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rec := httptest.NewRecorder()

	if _, ok := sessionFromRequest(rec, req); ok {
		t.Fatal("expected no session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "unauthorized" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}

func TestSessionFromRequestPresent(t *testing.T) {
	session := &domain.Session{UserID: "user-1", OwnerID: "owner-1", Role: domain.RoleOwner}
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req = req.WithContext(domain.ContextWithSession(req.Context(), session))
	rec := httptest.NewRecorder()

	got, ok := sessionFromRequest(rec, req)
	if !ok {
		t.Fatal("expected session")
	}
	if got.OwnerID != "owner-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
}
