package services

import (
	"errors"
	"strings"
	"time"

	"cuentas/internal/core"
)

// DefaultCashAccount is where shorthand entries land when no account is named.
const DefaultCashAccount = "Efectivo"

var ErrEmptyCommand = errors.New("empty command")
var ErrNoAmount = errors.New("command has no numeric amount")

// ParseCommand turns a free-text "amount description" shorthand from the
// notification channel into a transaction. The first numeric token is the
// amount, the rest is the description, and the kind is inferred from
// keywords ("pago luz" registers a payment, everything else an expense).
//
//	"450 luz"        -> Gasto   $450 "luz"
//	"pago 1200 visa" -> Pago  $1200 "pago visa"
func ParseCommand(text string, now time.Time) (core.Transaction, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return core.Transaction{}, ErrEmptyCommand
	}

	amountIdx := -1
	var amount float64
	for i, f := range fields {
		v, err := core.ParseAmount(f)
		if err == nil && v > 0 {
			amountIdx, amount = i, v
			break
		}
	}
	if amountIdx == -1 {
		return core.Transaction{}, ErrNoAmount
	}

	rest := make([]string, 0, len(fields)-1)
	rest = append(rest, fields[:amountIdx]...)
	rest = append(rest, fields[amountIdx+1:]...)
	description := strings.Join(rest, " ")
	if description == "" {
		description = "Movimiento"
	}

	t := core.Transaction{
		Date:         core.NewDate(now.Year(), int(now.Month()), now.Day()),
		Description:  description,
		Amount:       amount,
		Kind:         inferKind(description),
		Account:      DefaultCashAccount,
		Installments: 1,
		Source:       "Bot",
	}
	return t, t.Validate()
}

func inferKind(description string) core.Kind {
	v := strings.ToLower(description)
	switch {
	case strings.Contains(v, "reembolso"):
		return core.Reembolso
	case strings.Contains(v, "ingreso"), strings.Contains(v, "sueldo"):
		return core.Ingreso
	case strings.Contains(v, "pago"), strings.Contains(v, "abono"):
		return core.Pago
	default:
		return core.Gasto
	}
}
