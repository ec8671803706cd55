package services

import (
	"testing"

	"cuentas/internal/core"
)

func TestParseCommand(t *testing.T) {
	now := core.NewDate(2024, 3, 10)

	tests := []struct {
		name     string
		in       string
		wantDesc string
		wantAmt  float64
		wantKind core.Kind
		wantErr  bool
	}{
		{
			name:     "amount first",
			in:       "450 luz",
			wantDesc: "luz",
			wantAmt:  450,
			wantKind: core.Gasto,
		},
		{
			name:     "payment keyword",
			in:       "pago 1200 visa",
			wantDesc: "pago visa",
			wantAmt:  1200,
			wantKind: core.Pago,
		},
		{
			name:     "income keyword",
			in:       "15000 sueldo quincena",
			wantDesc: "sueldo quincena",
			wantAmt:  15000,
			wantKind: core.Ingreso,
		},
		{
			name:     "decimal comma",
			in:       "89,50 cafe",
			wantDesc: "cafe",
			wantAmt:  89.5,
			wantKind: core.Gasto,
		},
		{
			name:     "bare amount gets placeholder description",
			in:       "300",
			wantDesc: "Movimiento",
			wantAmt:  300,
			wantKind: core.Gasto,
		},
		{name: "empty", in: "   ", wantErr: true},
		{name: "no amount", in: "pagar la luz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.Amount != tt.wantAmt {
				t.Errorf("amount = %v, want %v", got.Amount, tt.wantAmt)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Account != DefaultCashAccount {
				t.Errorf("account = %q, want %q", got.Account, DefaultCashAccount)
			}
			if !got.Date.Equal(now) {
				t.Errorf("date = %v, want %v", got.Date, now)
			}
			if got.Installments != 1 || got.Source != "Bot" {
				t.Errorf("installments/source = %d/%q, want 1/Bot", got.Installments, got.Source)
			}
		})
	}
}
