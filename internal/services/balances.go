package services

import (
	"cuentas/internal/core"
)

// Balance computes the amount currently owed on an obligation from the
// transaction history snapshot.
//
// Revolving lines derive their balance from the signed flow against the
// account: charges push it up, payments pull it down, and a net-positive
// history (more paid than charged) reports zero debt rather than a credit.
// Fixed loans and receivables are principal minus what has been repaid,
// clamped at zero. Cash accounts report their net flow and carry no debt
// semantics.
func Balance(ob core.Obligation, txs []core.Transaction) float64 {
	switch ob.Category {
	case core.RevolvingCredit:
		var sum float64
		for _, t := range txs {
			if t.Account == ob.Name {
				sum += t.Signed()
			}
		}
		if b := -sum; b > 0 {
			return b
		}
		return 0
	case core.FixedLoan, core.Receivable:
		if b := ob.Principal - ob.Repaid; b > 0 {
			return b
		}
		return 0
	case core.CashAccount:
		var sum float64
		for _, t := range txs {
			if t.Account == ob.Name {
				sum += t.Signed()
			}
		}
		return sum
	default:
		return 0
	}
}

// SuggestedPayment returns the periodic payment to propose for a fixed-term
// obligation: the straight-line monthly share of the principal, never more
// than what remains. Other categories have no suggested payment.
func SuggestedPayment(ob core.Obligation, balance float64) float64 {
	if ob.Category != core.FixedLoan && ob.Category != core.Receivable {
		return 0
	}
	term := ob.TermMonths
	if term < 1 {
		term = 1
	}
	share := ob.Principal / float64(term)
	if share > balance {
		return balance
	}
	return share
}

// EffectiveStatus applies the automatic close transition: a fixed loan or
// receivable whose principal is fully repaid is Closed even if the stored
// status has not been updated yet. Revolving lines never auto-close; their
// balance can return to zero and rise again.
func EffectiveStatus(ob core.Obligation) core.Status {
	if ob.Status == core.Closed {
		return core.Closed
	}
	if (ob.Category == core.FixedLoan || ob.Category == core.Receivable) && ob.Principal > 0 && ob.Repaid >= ob.Principal {
		return core.Closed
	}
	return ob.Status
}
