package sheets

import (
	"strconv"
	"testing"

	"cuentas/internal/core"
)

func TestTransactionRowShape(t *testing.T) {
	tx := core.Transaction{
		Date:         core.NewDate(2024, 1, 20),
		Description:  "Laptop nueva",
		Amount:       1200,
		Kind:         core.Gasto,
		Account:      "CardA",
		Installments: 3,
		InterestRate: 10,
		CutDay:       15,
	}
	row := TransactionRow(tx)
	if len(row) != TxColCount {
		t.Fatalf("row has %d columns, want %d", len(row), TxColCount)
	}
	if row[TxColSource] != "Manual" {
		t.Errorf("source = %v, want default Manual", row[TxColSource])
	}
	if row[TxColDate] != "2024-01-20" {
		t.Errorf("date = %v, want 2024-01-20", row[TxColDate])
	}
	if row[TxColTag] != "Laptop" {
		t.Errorf("tag = %v, want first token", row[TxColTag])
	}
	if row[TxColNotes] != "-" {
		t.Errorf("notes = %v, want padded dash", row[TxColNotes])
	}
}

func TestParseTransactionRow_RoundTrip(t *testing.T) {
	cols := []string{"Manual", "2024-01-20", "Laptop nueva", "1200", "3", "10", "Gasto", "CardA", "15", "Laptop", "-"}
	got := ParseTransactionRow(cols)
	if !got.Date.Equal(core.NewDate(2024, 1, 20)) {
		t.Errorf("date = %v", got.Date)
	}
	if got.Amount != 1200 || got.Installments != 3 || got.InterestRate != 10 || got.CutDay != 15 {
		t.Errorf("financing fields = %+v", got)
	}
	if got.Kind != core.Gasto || got.Account != "CardA" {
		t.Errorf("kind/account = %v/%v", got.Kind, got.Account)
	}
}

func TestParseTransactionRow_SafeDefaults(t *testing.T) {
	// Legacy version-1 rows stop at BANCO and pad the middle with dashes.
	cols := []string{"Manual", "20/01/2024", "Luz", "450", "-", "-", "Gasto", "Efectivo"}
	got := ParseTransactionRow(cols)
	if got.Installments != 1 {
		t.Errorf("installments = %d, want default 1", got.Installments)
	}
	if got.InterestRate != 0 || got.CutDay != 0 {
		t.Errorf("rate/cut = %v/%v, want zero defaults", got.InterestRate, got.CutDay)
	}
	if got.Amount != 450 {
		t.Errorf("amount = %v, want 450", got.Amount)
	}
}

func TestParseTransactionRow_BadDateLeavesZero(t *testing.T) {
	cols := []string{"Manual", "mañana", "Luz", "450", "1", "0", "Gasto", "Efectivo", "0", "-", "-"}
	got := ParseTransactionRow(cols)
	if !got.Date.IsZero() {
		t.Errorf("date = %v, want zero for unparsable cell", got.Date)
	}
}

func TestObligationRowRoundTrip(t *testing.T) {
	ob := core.Obligation{
		Name:        "CardA",
		Category:    core.RevolvingCredit,
		CutDay:      15,
		DueDay:      5,
		CreditLimit: 30000,
		Status:      core.Active,
	}
	row := ObligationRow(ob)
	if len(row) != ObColCount {
		t.Fatalf("row has %d columns, want %d", len(row), ObColCount)
	}

	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = toCell(v)
	}
	got, ok := ParseObligationRow(cols)
	if !ok {
		t.Fatal("round-tripped row rejected")
	}
	if got.Name != ob.Name || got.Category != ob.Category || got.CutDay != 15 || got.DueDay != 5 {
		t.Errorf("got %+v, want %+v", got, ob)
	}
}

func TestParseObligationRow_RejectsHeadersAndUnknown(t *testing.T) {
	if _, ok := ParseObligationRow([]string{"NOMBRE", "CATEGORIA", "PRINCIPAL"}); ok {
		t.Error("header row accepted")
	}
	if _, ok := ParseObligationRow([]string{"", "Tarjeta"}); ok {
		t.Error("nameless row accepted")
	}
	if _, ok := ParseObligationRow([]string{"X", "Hipoteca"}); ok {
		t.Error("unknown category accepted")
	}
}

func toCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
