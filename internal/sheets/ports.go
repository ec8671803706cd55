package sheets

import (
	"context"

	"cuentas/internal/core"
)

// Ports for outbound adapters. The tabular store is append/update/read-all
// only; every write is an independent, non-atomic operation and the last
// write wins across sessions.
type (
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	ObligationAppender interface {
		AppendObligation(ctx context.Context, o core.Obligation) (rowRef string, err error)
	}

	// ObligationLister reads the obligation sheet. A missing sheet is not an
	// error: obligations are a secondary data set and default to empty.
	ObligationLister interface {
		ListObligations(ctx context.Context) ([]core.Obligation, error)
	}

	// ObligationUpdater mutates a single obligation identified by name.
	ObligationUpdater interface {
		UpdateRepaid(ctx context.Context, name string, repaid float64) error
		UpdateStatus(ctx context.Context, name string, status core.Status) error
	}

	// InvestmentLister exposes the investments sheet as raw rows. The engine
	// never reads it; only the spreadsheet-backed store carries the sheet.
	InvestmentLister interface {
		ListInvestmentsRaw(ctx context.Context) ([][]string, error)
	}
)
