package memory

import (
	"context"
	"testing"

	"cuentas/internal/core"
)

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendTransaction(ctx, core.Transaction{
		Date:         core.NewDate(2024, 1, 5),
		Description:  "Luz",
		Amount:       450,
		Kind:         core.Gasto,
		Account:      "Efectivo",
		Installments: 1,
	})
	if err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if ref == "" {
		t.Error("empty row reference")
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil || len(txs) != 1 {
		t.Fatalf("ListTransactions = %v, %v", txs, err)
	}
}

func TestAppendTransaction_RejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.AppendTransaction(context.Background(), core.Transaction{Amount: -1, Installments: 1, Description: "x"})
	if err == nil {
		t.Fatal("negative amount accepted")
	}
}

func TestObligationUpdates(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.AppendObligation(ctx, core.Obligation{
		Name:       "Prestamo Auto",
		Category:   core.FixedLoan,
		Principal:  120000,
		TermMonths: 24,
	}); err != nil {
		t.Fatalf("AppendObligation: %v", err)
	}

	if err := s.UpdateRepaid(ctx, "Prestamo Auto", 5000); err != nil {
		t.Fatalf("UpdateRepaid: %v", err)
	}
	if err := s.UpdateStatus(ctx, "Prestamo Auto", core.Closed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	obs, _ := s.ListObligations(ctx)
	if obs[0].Repaid != 5000 || obs[0].Status != core.Closed {
		t.Errorf("obligation = %+v", obs[0])
	}

	if err := s.UpdateRepaid(ctx, "nope", 1); err == nil {
		t.Error("update of unknown obligation succeeded")
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := New()
	s.Seed([]core.Transaction{{Description: "a", Amount: 1, Installments: 1}}, nil)

	txs, _ := s.ListTransactions(context.Background())
	txs[0].Description = "mutated"

	again, _ := s.ListTransactions(context.Background())
	if again[0].Description != "a" {
		t.Error("internal slice exposed to callers")
	}
}
