package services

import (
	"fmt"
	"sort"

	"cuentas/internal/core"
)

// ProjectionResult is the outcome of expanding a batch of transactions.
// Skipped rows are reported explicitly instead of being swallowed; the
// projection is best-effort but never silent about what it dropped.
type ProjectionResult struct {
	Records []core.InstallmentRecord
	Skipped []SkippedRow
}

// SkippedRow identifies a transaction excluded from projection and why.
type SkippedRow struct {
	Index  int
	Reason string
}

// Expand turns one transaction into its dated installment records.
//
// A financed purchase (Installments > 1) becomes N equal monthly payments of
// amount*(1+rate/100)/N. Interest is a flat surcharge on the financed total,
// never compounded per period. Division is plain float64; the per-installment
// amounts may drift from the financed total by sub-unit amounts, which is
// accepted rather than corrected (the remainder is not folded into the last
// installment).
//
// When the purchase posted after the card's statement cut day, the first
// installment shifts one calendar month forward: the statement for the
// purchase month had already closed. Lump sums (Installments == 1) are never
// shifted and fall on the transaction date itself.
//
// A zero transaction date yields an empty slice; use ExpandAll to get the
// skip accounted for.
func Expand(t core.Transaction) []core.InstallmentRecord {
	if t.Date.IsZero() {
		return nil
	}

	count := t.Installments
	if count < 1 {
		count = 1
	}

	total := t.Amount * (1 + t.InterestRate/100)
	per := total / float64(count)

	start := t.Date
	if count > 1 && t.CutDay > 0 && t.Date.Day() > t.CutDay {
		start = addMonths(start, 1)
	}

	flow := core.LumpSum
	if count > 1 {
		flow = core.Deferred
	}
	tag := core.FirstToken(t.Description)
	sign := t.Kind.Sign()

	records := make([]core.InstallmentRecord, 0, count)
	for i := 0; i < count; i++ {
		desc := t.Description
		if count > 1 {
			desc = fmt.Sprintf("%s (%d/%d)", t.Description, i+1, count)
		}
		records = append(records, core.InstallmentRecord{
			DueDate:      addMonths(start, i),
			Description:  desc,
			Amount:       per,
			SignedAmount: sign * per,
			CategoryTag:  tag,
			FlowType:     flow,
		})
	}
	return records
}

// ExpandAll expands every transaction in the batch, collecting the rows that
// could not be projected. Records are sorted ascending by due date across
// transactions; within a transaction installment order is preserved.
func ExpandAll(ts []core.Transaction) ProjectionResult {
	var res ProjectionResult
	for i, t := range ts {
		if t.Date.IsZero() {
			res.Skipped = append(res.Skipped, SkippedRow{Index: i, Reason: "unparsable date"})
			continue
		}
		res.Records = append(res.Records, Expand(t)...)
	}
	sort.SliceStable(res.Records, func(a, b int) bool {
		return res.Records[a].DueDate.Before(res.Records[b].DueDate)
	})
	return res
}
