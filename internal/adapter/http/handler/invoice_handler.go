package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/usecase"
)

// InvoiceHandler handles invoice-related HTTP requests.
type InvoiceHandler struct {
	invoiceUC *usecase.InvoiceUseCase
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceUC *usecase.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC}
}

// Create creates a new invoice with its line items.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	inv, items, err := h.invoiceUC.CreateInvoice(r.Context(), session, input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create invoice", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.InvoiceDetailResponse{
		Invoice: dto.InvoiceFromDomain(inv),
		Items:   dto.InvoiceItemsFromDomain(items),
	})
}

// Get retrieves an invoice with its items and settling transactions.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing invoice ID", "")
		return
	}

	detail, err := h.invoiceUC.GetInvoice(r.Context(), session, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get invoice", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceDetailResponse{
		Invoice:     dto.InvoiceFromDomain(detail.Invoice),
		Items:       dto.InvoiceItemsFromDomain(detail.Items),
		Settlements: dto.TransactionsFromDomain(detail.Settlements),
	})
}

// List lists the session owner's invoices.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	input := usecase.ListInvoicesInput{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.InvoiceStatus(raw)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid status", domain.ErrInvalidInvoiceStatus.Error())
			return
		}
		input.Status = &status
	}

	invoices, err := h.invoiceUC.ListInvoices(r.Context(), session, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invoices", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoicesFromDomain(invoices))
}

// ListUnpaid lists the owner's unpaid invoices for the linkage dropdown.
func (h *InvoiceHandler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	invoices, err := h.invoiceUC.ListUnpaid(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list unpaid invoices", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoicesFromDomain(invoices))
}

// Pay marks an invoice as paid. Paying an already paid invoice is a
// no-op.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing invoice ID", "")
		return
	}

	inv, err := h.invoiceUC.MarkPaid(r.Context(), session, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to pay invoice", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceFromDomain(inv))
}

// Prefill returns a draft transaction settling the invoice.
func (h *InvoiceHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing invoice ID", "")
		return
	}

	input, err := h.invoiceUC.PrefillFromInvoice(r.Context(), session, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to prefill transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RecordTransactionRequest{
		Date:        input.Date.Format("2006-01-02"),
		Description: input.Description,
		Category:    string(input.Category),
		Kind:        string(input.Kind),
		Amount:      input.Amount,
		InvoiceID:   input.InvoiceID,
	})
}
