package core

import (
	"testing"
	"time"
)

func TestKindSign(t *testing.T) {
	if Gasto.Sign() != -1 {
		t.Error("Gasto should be negative")
	}
	for _, k := range []Kind{Ingreso, Pago, Reembolso} {
		if k.Sign() != 1 {
			t.Errorf("%s should be positive", k)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Gasto", Gasto},
		{"GASTO (Salida)", Gasto},
		{"Pago", Pago},
		{"abono a tarjeta", Pago},
		{"Ingreso", Ingreso},
		{"Reembolso", Reembolso},
		{"", Gasto},
		{"???", Gasto},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:         NewDate(2024, 1, 20),
		Description:  "Super",
		Amount:       100,
		Kind:         Gasto,
		Account:      "CardA",
		Installments: 1,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }},
		{"zero installments", func(tx *Transaction) { tx.Installments = 0 }},
		{"cut day out of range", func(tx *Transaction) { tx.CutDay = 32 }},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTransactionSigned(t *testing.T) {
	tx := Transaction{Amount: 50, Kind: Gasto}
	if tx.Signed() != -50 {
		t.Errorf("Signed() = %v, want -50", tx.Signed())
	}
	tx.Kind = Pago
	if tx.Signed() != 50 {
		t.Errorf("Signed() = %v, want 50", tx.Signed())
	}
}

func TestObligationValidate(t *testing.T) {
	valid := Obligation{Name: "CardA", Category: RevolvingCredit, CutDay: 15, DueDay: 5, Status: Active}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid obligation rejected: %v", err)
	}

	bad := valid
	bad.Name = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty name accepted")
	}
	bad = valid
	bad.Category = "Hipoteca"
	if err := bad.Validate(); err == nil {
		t.Error("unknown category accepted")
	}
	bad = valid
	bad.DueDay = 40
	if err := bad.Validate(); err == nil {
		t.Error("out of range due day accepted")
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.January, 31},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
