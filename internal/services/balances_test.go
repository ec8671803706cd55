package services

import (
	"testing"

	"cuentas/internal/core"
)

func tx(account string, kind core.Kind, amount float64) core.Transaction {
	return core.Transaction{
		Date:         core.NewDate(2024, 1, 15),
		Description:  "x",
		Amount:       amount,
		Kind:         kind,
		Account:      account,
		Installments: 1,
	}
}

func TestBalance_RevolvingCredit(t *testing.T) {
	card := core.Obligation{Name: "CardA", Category: core.RevolvingCredit, Status: core.Active}

	tests := []struct {
		name string
		txs  []core.Transaction
		want float64
	}{
		{
			name: "charges accumulate",
			txs:  []core.Transaction{tx("CardA", core.Gasto, 100), tx("CardA", core.Gasto, 50)},
			want: 150,
		},
		{
			name: "payments reduce",
			txs:  []core.Transaction{tx("CardA", core.Gasto, 100), tx("CardA", core.Pago, 60)},
			want: 40,
		},
		{
			name: "overpayment floors at zero",
			txs:  []core.Transaction{tx("CardA", core.Gasto, 100), tx("CardA", core.Pago, 500)},
			want: 0,
		},
		{
			name: "other accounts ignored",
			txs:  []core.Transaction{tx("CardB", core.Gasto, 999), tx("CardA", core.Gasto, 10)},
			want: 10,
		},
		{
			name: "empty history",
			txs:  nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Balance(card, tt.txs); got != tt.want {
				t.Errorf("Balance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBalance_RevolvingNeverNegative(t *testing.T) {
	card := core.Obligation{Name: "CardA", Category: core.RevolvingCredit, Status: core.Active}
	histories := [][]core.Transaction{
		{tx("CardA", core.Pago, 1000)},
		{tx("CardA", core.Ingreso, 5), tx("CardA", core.Reembolso, 5)},
		{tx("CardA", core.Gasto, 1), tx("CardA", core.Pago, 2), tx("CardA", core.Pago, 3)},
	}
	for i, h := range histories {
		if got := Balance(card, h); got < 0 {
			t.Errorf("history %d: balance = %v, want >= 0", i, got)
		}
	}
}

func TestBalance_FixedLoan(t *testing.T) {
	loan := core.Obligation{Name: "Auto", Category: core.FixedLoan, Principal: 10000, Status: core.Active}

	prev := Balance(loan, nil)
	for _, repaid := range []float64{0, 1000, 5000, 9999, 10000, 12000} {
		loan.Repaid = repaid
		got := Balance(loan, nil)
		if got < 0 {
			t.Errorf("repaid=%v: balance = %v, want >= 0", repaid, got)
		}
		if got > prev {
			t.Errorf("repaid=%v: balance increased from %v to %v", repaid, prev, got)
		}
		prev = got
	}
	loan.Repaid = 3000
	if got := Balance(loan, nil); got != 7000 {
		t.Errorf("balance = %v, want 7000", got)
	}
}

func TestBalance_CashAccountNetFlow(t *testing.T) {
	cash := core.Obligation{Name: "Efectivo", Category: core.CashAccount, Status: core.Active}
	txs := []core.Transaction{tx("Efectivo", core.Ingreso, 100), tx("Efectivo", core.Gasto, 30)}
	if got := Balance(cash, txs); got != 70 {
		t.Errorf("cash balance = %v, want 70", got)
	}
}

func TestSuggestedPayment(t *testing.T) {
	loan := core.Obligation{Name: "Auto", Category: core.FixedLoan, Principal: 12000, TermMonths: 12}

	if got := SuggestedPayment(loan, 5000); got != 1000 {
		t.Errorf("SuggestedPayment() = %v, want monthly share 1000", got)
	}
	// Never suggest more than the remaining balance.
	if got := SuggestedPayment(loan, 400); got != 400 {
		t.Errorf("SuggestedPayment() = %v, want remaining 400", got)
	}
	// Missing term falls back to a single payment.
	loan.TermMonths = 0
	if got := SuggestedPayment(loan, 20000); got != 12000 {
		t.Errorf("SuggestedPayment() with no term = %v, want full principal", got)
	}
	// Revolving lines have no suggested payment.
	card := core.Obligation{Name: "CardA", Category: core.RevolvingCredit}
	if got := SuggestedPayment(card, 500); got != 0 {
		t.Errorf("SuggestedPayment() for revolving = %v, want 0", got)
	}
}

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name string
		ob   core.Obligation
		want core.Status
	}{
		{
			name: "active loan stays active",
			ob:   core.Obligation{Category: core.FixedLoan, Principal: 100, Repaid: 50, Status: core.Active},
			want: core.Active,
		},
		{
			name: "fully repaid loan auto closes",
			ob:   core.Obligation{Category: core.FixedLoan, Principal: 100, Repaid: 100, Status: core.Active},
			want: core.Closed,
		},
		{
			name: "manually closed stays closed",
			ob:   core.Obligation{Category: core.RevolvingCredit, Status: core.Closed},
			want: core.Closed,
		},
		{
			name: "revolving never auto closes",
			ob:   core.Obligation{Category: core.RevolvingCredit, Status: core.Active},
			want: core.Active,
		},
		{
			name: "zero principal loan does not auto close",
			ob:   core.Obligation{Category: core.FixedLoan, Principal: 0, Repaid: 0, Status: core.Active},
			want: core.Active,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.ob); got != tt.want {
				t.Errorf("EffectiveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
