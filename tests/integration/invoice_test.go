package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/tests/testutil"
)

func TestInvoiceSettlement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	stack := newTestStack(t, ctx, testDB)

	testDB.CreateTestOwner(ctx, "ibu@warung.id", "rahasia-besar")
	token := stack.login(t, "ibu@warung.id", "rahasia-besar")

	createInvoice := func(t *testing.T, number string) dto.InvoiceDetailResponse {
		t.Helper()

		w := stack.do(t, http.MethodPost, "/api/v1/invoices/", token, dto.CreateInvoiceRequest{
			Number:   number,
			Customer: "Pak Budi",
			Date:     "2026-08-10",
			Items: []dto.InvoiceItemRequest{
				{Name: "Beras 5kg", Quantity: 2, UnitPrice: decimal.NewFromInt(70000)},
				{Name: "Minyak goreng", Quantity: 1, UnitPrice: decimal.NewFromInt(35000)},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var resp dto.InvoiceDetailResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		return resp
	}

	t.Run("create invoice computes amount from items", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestOwner(ctx, "ibu@warung.id", "rahasia-besar")
		token = stack.login(t, "ibu@warung.id", "rahasia-besar")

		resp := createInvoice(t, "INV-001")

		if !resp.Invoice.Amount.Equal(decimal.NewFromInt(175000)) {
			t.Errorf("expected amount 175000, got %s", resp.Invoice.Amount)
		}

		if resp.Invoice.Status != domain.InvoiceStatusUnpaid {
			t.Errorf("expected status %q, got %q", domain.InvoiceStatusUnpaid, resp.Invoice.Status)
		}

		if len(resp.Items) != 2 {
			t.Errorf("expected 2 items, got %d", len(resp.Items))
		}
	})

	t.Run("reject duplicate invoice number", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/invoices/", token, dto.CreateInvoiceRequest{
			Number:   "INV-001",
			Customer: "Bu Sari",
			Date:     "2026-08-11",
			Amount:   decimal.NewFromInt(50000),
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}
	})

	t.Run("prefill then record settles the invoice", func(t *testing.T) {
		resp := createInvoice(t, "INV-002")

		w := stack.do(t, http.MethodGet, "/api/v1/invoices/"+resp.Invoice.ID+"/prefill", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("prefill failed: %d %s", w.Code, w.Body.String())
		}

		var draft dto.RecordTransactionRequest
		if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
			t.Fatalf("failed to parse prefill response: %v", err)
		}

		if draft.InvoiceID == nil || *draft.InvoiceID != resp.Invoice.ID {
			t.Fatalf("expected prefill to reference invoice %s", resp.Invoice.ID)
		}

		if !draft.Amount.Equal(resp.Invoice.Amount) {
			t.Errorf("expected prefill amount %s, got %s", resp.Invoice.Amount, draft.Amount)
		}

		w = stack.do(t, http.MethodPost, "/api/v1/transactions/", token, draft)
		if w.Code != http.StatusCreated {
			t.Fatalf("record failed: %d %s", w.Code, w.Body.String())
		}

		var recorded dto.RecordTransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &recorded); err != nil {
			t.Fatalf("failed to parse record response: %v", err)
		}

		if !recorded.Settled {
			t.Error("recording the prefilled transaction did not report the invoice as settled")
		}

		// Recording is step one; the invoice stays unpaid until the
		// explicit pay call.
		stored, err := stack.invoiceRepo.GetByID(ctx, resp.Invoice.ID)
		if err != nil {
			t.Fatalf("failed to load invoice: %v", err)
		}

		if stored.Status != domain.InvoiceStatusUnpaid {
			t.Errorf("expected status %q before pay, got %q", domain.InvoiceStatusUnpaid, stored.Status)
		}

		w = stack.do(t, http.MethodPost, "/api/v1/invoices/"+resp.Invoice.ID+"/pay", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("pay failed: %d %s", w.Code, w.Body.String())
		}

		stored, err = stack.invoiceRepo.GetByID(ctx, resp.Invoice.ID)
		if err != nil {
			t.Fatalf("failed to load invoice: %v", err)
		}

		if stored.Status != domain.InvoiceStatusPaid {
			t.Errorf("expected status %q after pay, got %q", domain.InvoiceStatusPaid, stored.Status)
		}
	})

	t.Run("pay is idempotent", func(t *testing.T) {
		resp := createInvoice(t, "INV-003")

		for i := 0; i < 2; i++ {
			w := stack.do(t, http.MethodPost, "/api/v1/invoices/"+resp.Invoice.ID+"/pay", token, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("pay attempt %d failed: %d %s", i+1, w.Code, w.Body.String())
			}

			var paid dto.InvoiceResponse
			if err := json.Unmarshal(w.Body.Bytes(), &paid); err != nil {
				t.Fatalf("failed to parse pay response: %v", err)
			}

			if paid.Status != domain.InvoiceStatusPaid {
				t.Errorf("pay attempt %d: expected status %q, got %q", i+1, domain.InvoiceStatusPaid, paid.Status)
			}
		}
	})

	t.Run("unpaid listing excludes paid invoices", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestOwner(ctx, "ibu@warung.id", "rahasia-besar")
		token = stack.login(t, "ibu@warung.id", "rahasia-besar")

		open := createInvoice(t, "INV-100")
		settled := createInvoice(t, "INV-101")

		w := stack.do(t, http.MethodPost, "/api/v1/invoices/"+settled.Invoice.ID+"/pay", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("pay failed: %d %s", w.Code, w.Body.String())
		}

		w = stack.do(t, http.MethodGet, "/api/v1/invoices/unpaid", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("unpaid listing failed: %d %s", w.Code, w.Body.String())
		}

		var list []dto.InvoiceResponse
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		if len(list) != 1 {
			t.Fatalf("expected 1 unpaid invoice, got %d", len(list))
		}

		if list[0].ID != open.Invoice.ID {
			t.Errorf("expected invoice %s in unpaid listing, got %s", open.Invoice.ID, list[0].ID)
		}
	})
}
