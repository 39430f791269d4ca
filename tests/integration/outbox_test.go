package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/tests/testutil"
)

func TestOutboxEvents(t *testing.T) {
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

	t.Run("recording a transaction queues an event", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestOwner(ctx, "ibu@warung.id", "rahasia-besar")
		token = stack.login(t, "ibu@warung.id", "rahasia-besar")

		w := stack.do(t, http.MethodPost, "/api/v1/transactions/", token, dto.RecordTransactionRequest{
			Date:        "2026-08-15",
			Description: "Penjualan siang",
			Category:    string(domain.CategoryPenjualanTunai),
			Kind:        string(domain.KindDebit),
			Amount:      decimal.NewFromInt(30000),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("record failed: %d %s", w.Code, w.Body.String())
		}

		var resp dto.RecordTransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		events, err := stack.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to fetch unpublished events: %v", err)
		}

		if len(events) != 1 {
			t.Fatalf("expected 1 unpublished event, got %d", len(events))
		}

		event := events[0]
		if event.EventType != domain.EventTypeTransactionCreated {
			t.Errorf("expected event type %q, got %q", domain.EventTypeTransactionCreated, event.EventType)
		}

		if event.AggregateID != resp.Transaction.ID {
			t.Errorf("expected aggregate %s, got %s", resp.Transaction.ID, event.AggregateID)
		}
	})

	t.Run("marking published drains the queue", func(t *testing.T) {
		events, err := stack.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to fetch unpublished events: %v", err)
		}

		for _, event := range events {
			if err := stack.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
				t.Fatalf("failed to mark event published: %v", err)
			}
		}

		events, err = stack.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to fetch unpublished events: %v", err)
		}

		if len(events) != 0 {
			t.Errorf("expected no unpublished events, got %d", len(events))
		}
	})

	t.Run("paying an invoice queues its own event", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		testDB.CreateTestOwner(ctx, "ibu@warung.id", "rahasia-besar")
		token = stack.login(t, "ibu@warung.id", "rahasia-besar")

		w := stack.do(t, http.MethodPost, "/api/v1/invoices/", token, dto.CreateInvoiceRequest{
			Number:   "INV-500",
			Customer: "Pak Budi",
			Date:     "2026-08-20",
			Amount:   decimal.NewFromInt(250000),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create invoice failed: %d %s", w.Code, w.Body.String())
		}

		var created dto.InvoiceDetailResponse
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		w = stack.do(t, http.MethodPost, "/api/v1/invoices/"+created.Invoice.ID+"/pay", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("pay failed: %d %s", w.Code, w.Body.String())
		}

		events, err := stack.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to fetch unpublished events: %v", err)
		}

		types := make(map[string]int, len(events))
		for _, event := range events {
			types[event.EventType]++
		}

		if types[domain.EventTypeInvoiceCreated] != 1 {
			t.Errorf("expected 1 %s event, got %d", domain.EventTypeInvoiceCreated, types[domain.EventTypeInvoiceCreated])
		}

		if types[domain.EventTypeInvoicePaid] != 1 {
			t.Errorf("expected 1 %s event, got %d", domain.EventTypeInvoicePaid, types[domain.EventTypeInvoicePaid])
		}
	})
}
