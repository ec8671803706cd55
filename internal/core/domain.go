package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Gasto     Kind = "Gasto"
	Ingreso   Kind = "Ingreso"
	Pago      Kind = "Pago"
	Reembolso Kind = "Reembolso"
)

const (
	RevolvingCredit ObligationCategory = "Tarjeta"
	FixedLoan       ObligationCategory = "Prestamo"
	Receivable      ObligationCategory = "PorCobrar"
	CashAccount     ObligationCategory = "Efectivo"
)

const (
	Active Status = "Activa"
	Closed Status = "Cerrada"
)

const (
	LumpSum  FlowType = "LumpSum"
	Deferred FlowType = "Deferred"
)

const (
	RevolvingPayment SourceKind = "RevolvingPayment"
	LoanInstallment  SourceKind = "LoanInstallment"
	StatementCut     SourceKind = "StatementCut"
)

const (
	SeverityNormal Severity = "normal"
	SeverityHigh   Severity = "high"
)

type (
	Kind               string
	ObligationCategory string
	Status             string
	FlowType           string
	SourceKind         string
	Severity           string

	// Transaction is a raw monetary movement as persisted in the store.
	// Amount is a non-negative magnitude; the sign is derived from Kind.
	Transaction struct {
		Date         time.Time
		Description  string
		Amount       float64
		Kind         Kind
		Account      string
		Installments int     // 1 = not financed
		InterestRate float64 // flat percentage on the financed total, 0 = none
		CutDay       int     // statement cut day-of-month, 0 = not applicable
		Source       string  // "Manual", "Bot", ...
	}

	// Obligation is a configured credit line, loan, receivable or cash pool.
	Obligation struct {
		Name         string
		Category     ObligationCategory
		Principal    float64
		Repaid       float64
		TermMonths   int
		InterestRate float64
		CutDay       int
		DueDay       int
		CreditLimit  float64
		Status       Status
	}

	// InstallmentRecord is a derived, dated slice of a financed transaction.
	// Never persisted; recomputed on every read.
	InstallmentRecord struct {
		DueDate      time.Time
		Description  string
		Amount       float64
		SignedAmount float64
		CategoryTag  string
		FlowType     FlowType
	}

	CalendarEvent struct {
		DueDate    time.Time
		Label      string
		Amount     float64
		SourceKind SourceKind
	}

	Alert struct {
		Event    CalendarEvent
		DaysLeft int
		Severity Severity
		Message  string
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidInstallments = errors.New("invalid installment count")
	ErrInvalidDay          = errors.New("invalid day of month")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidCategory     = errors.New("invalid obligation category")
)

// Sign returns -1 for outgoing money and +1 for incoming money.
func (k Kind) Sign() float64 {
	if k == Gasto {
		return -1
	}
	return 1
}

// ParseKind maps a free-form store label to a Kind. Labels containing
// "gasto" count as expenses regardless of casing, matching the store's
// historical data; anything unrecognized defaults to Gasto.
func ParseKind(s string) Kind {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "gasto"):
		return Gasto
	case strings.Contains(v, "ingreso"):
		return Ingreso
	case strings.Contains(v, "reembolso"):
		return Reembolso
	case strings.Contains(v, "pago"), strings.Contains(v, "abono"):
		return Pago
	default:
		return Gasto
	}
}

// Signed returns the transaction amount with its derived sign.
func (t Transaction) Signed() float64 {
	return t.Kind.Sign() * t.Amount
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if t.Installments < 1 {
		return ErrInvalidInstallments
	}
	if t.CutDay < 0 || t.CutDay > 31 {
		return ErrInvalidDay
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c ObligationCategory) IsValid() bool {
	switch c {
	case RevolvingCredit, FixedLoan, Receivable, CashAccount:
		return true
	}
	return false
}

func (o Obligation) Validate() error {
	if len(strings.TrimSpace(o.Name)) == 0 {
		return ErrEmptyName
	}
	if !o.Category.IsValid() {
		return ErrInvalidCategory
	}
	if o.Principal < 0 || o.Repaid < 0 {
		return ErrInvalidAmount
	}
	if o.CutDay < 0 || o.CutDay > 31 || o.DueDay < 0 || o.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

// NewDate builds a UTC date at midnight. All engine dates are day-granular.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
