package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cuentas/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository is the local-first store. Writes land here immediately;
// a background worker replays them to the spreadsheet.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendTransaction implements sheets.TransactionAppender.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	source := t.Source
	if source == "" {
		source = "Manual"
	}
	row, err := r.queries.CreateTransaction(ctx, createTransactionParams{
		Date:         t.Date.Format(dateLayout),
		Description:  t.Description,
		Amount:       t.Amount,
		Kind:         string(t.Kind),
		Account:      t.Account,
		Installments: int64(t.Installments),
		InterestRate: t.InterestRate,
		CutDay:       int64(t.CutDay),
		Source:       source,
	})
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"description", row.Description,
		"amount", row.Amount,
		"kind", row.Kind)

	return strconv.FormatInt(row.ID, 10), nil
}

// ListTransactions implements sheets.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = toCoreTransaction(row)
	}
	return out, nil
}

// GetTransaction retrieves a single transaction by its local id. Used by the
// sync worker to rehydrate queue messages.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return toCoreTransaction(row), nil
}

// AppendObligation implements sheets.ObligationAppender.
func (r *SQLiteRepository) AppendObligation(ctx context.Context, o core.Obligation) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	status := o.Status
	if status == "" {
		status = core.Active
	}
	err := r.queries.CreateObligation(ctx, dbObligation{
		Name:         o.Name,
		Category:     string(o.Category),
		Principal:    o.Principal,
		Repaid:       o.Repaid,
		TermMonths:   int64(o.TermMonths),
		InterestRate: o.InterestRate,
		CutDay:       int64(o.CutDay),
		DueDay:       int64(o.DueDay),
		CreditLimit:  o.CreditLimit,
		Status:       string(status),
	})
	if err != nil {
		return "", fmt.Errorf("create obligation: %w", err)
	}
	return o.Name, nil
}

// ListObligations implements sheets.ObligationLister.
func (r *SQLiteRepository) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	rows, err := r.queries.ListObligations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	out := make([]core.Obligation, len(rows))
	for i, row := range rows {
		out[i] = core.Obligation{
			Name:         row.Name,
			Category:     core.ObligationCategory(row.Category),
			Principal:    row.Principal,
			Repaid:       row.Repaid,
			TermMonths:   int(row.TermMonths),
			InterestRate: row.InterestRate,
			CutDay:       int(row.CutDay),
			DueDay:       int(row.DueDay),
			CreditLimit:  row.CreditLimit,
			Status:       core.Status(row.Status),
		}
	}
	return out, nil
}

// UpdateRepaid implements sheets.ObligationUpdater.
func (r *SQLiteRepository) UpdateRepaid(ctx context.Context, name string, repaid float64) error {
	n, err := r.queries.UpdateObligationRepaid(ctx, name, repaid)
	if err != nil {
		return fmt.Errorf("update repaid: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("obligation %q not found", name)
	}
	return nil
}

// UpdateStatus implements sheets.ObligationUpdater.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, name string, status core.Status) error {
	n, err := r.queries.UpdateObligationStatus(ctx, name, string(status))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("obligation %q not found", name)
	}
	return nil
}

// PendingSyncTransaction is the minimal payload queued for spreadsheet sync.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns locally written transactions that still
// need to reach the spreadsheet.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	out := make([]PendingSyncTransaction, len(rows))
	for i, row := range rows {
		out[i] = PendingSyncTransaction{ID: row.ID, CreatedAt: row.CreatedAt}
	}
	return out, nil
}

// MarkSynced records a successful spreadsheet replay.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed replay attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func toCoreTransaction(row dbTransaction) core.Transaction {
	t := core.Transaction{
		Description:  row.Description,
		Amount:       row.Amount,
		Kind:         core.Kind(row.Kind),
		Account:      row.Account,
		Installments: int(row.Installments),
		InterestRate: row.InterestRate,
		CutDay:       int(row.CutDay),
		Source:       row.Source,
	}
	if d, ok := core.ParseDate(row.Date); ok {
		t.Date = d
	}
	return t
}
