package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL statements against the local database.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// dbTransaction mirrors one row of the transactions table.
type dbTransaction struct {
	ID           int64
	Date         string
	Description  string
	Amount       float64
	Kind         string
	Account      string
	Installments int64
	InterestRate float64
	CutDay       int64
	Source       string
	SyncStatus   string
	SyncAttempts int64
	CreatedAt    time.Time
}

type dbObligation struct {
	Name         string
	Category     string
	Principal    float64
	Repaid       float64
	TermMonths   int64
	InterestRate float64
	CutDay       int64
	DueDay       int64
	CreditLimit  float64
	Status       string
}

type createTransactionParams struct {
	Date         string
	Description  string
	Amount       float64
	Kind         string
	Account      string
	Installments int64
	InterestRate float64
	CutDay       int64
	Source       string
}

func (q *Queries) CreateTransaction(ctx context.Context, p createTransactionParams) (dbTransaction, error) {
	const stmt = `
		INSERT INTO transactions (date, description, amount, kind, account, installments, interest_rate, cut_day, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, date, description, amount, kind, account, installments, interest_rate, cut_day, source, sync_status, sync_attempts, created_at`
	row := q.db.QueryRowContext(ctx, stmt,
		p.Date, p.Description, p.Amount, p.Kind, p.Account, p.Installments, p.InterestRate, p.CutDay, p.Source)
	return scanTransaction(row)
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (dbTransaction, error) {
	const stmt = `
		SELECT id, date, description, amount, kind, account, installments, interest_rate, cut_day, source, sync_status, sync_attempts, created_at
		FROM transactions WHERE id = ?`
	return scanTransaction(q.db.QueryRowContext(ctx, stmt, id))
}

func (q *Queries) ListTransactions(ctx context.Context) ([]dbTransaction, error) {
	const stmt = `
		SELECT id, date, description, amount, kind, account, installments, interest_rate, cut_day, source, sync_status, sync_attempts, created_at
		FROM transactions ORDER BY date, id`
	rows, err := q.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]dbTransaction, error) {
	const stmt = `
		SELECT id, date, description, amount, kind, account, installments, interest_rate, cut_day, source, sync_status, sync_attempts, created_at
		FROM transactions WHERE sync_status = 'pending' ORDER BY id LIMIT ?`
	rows, err := q.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (q *Queries) MarkTransactionSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id)
	return err
}

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error', sync_attempts = sync_attempts + 1 WHERE id = ?`, id)
	return err
}

func (q *Queries) CreateObligation(ctx context.Context, o dbObligation) error {
	const stmt = `
		INSERT INTO obligations (name, category, principal, repaid, term_months, interest_rate, cut_day, due_day, credit_limit, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt,
		o.Name, o.Category, o.Principal, o.Repaid, o.TermMonths, o.InterestRate, o.CutDay, o.DueDay, o.CreditLimit, o.Status)
	return err
}

func (q *Queries) ListObligations(ctx context.Context) ([]dbObligation, error) {
	const stmt = `
		SELECT name, category, principal, repaid, term_months, interest_rate, cut_day, due_day, credit_limit, status
		FROM obligations ORDER BY name`
	rows, err := q.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dbObligation
	for rows.Next() {
		var o dbObligation
		if err := rows.Scan(&o.Name, &o.Category, &o.Principal, &o.Repaid, &o.TermMonths,
			&o.InterestRate, &o.CutDay, &o.DueDay, &o.CreditLimit, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateObligationRepaid(ctx context.Context, name string, repaid float64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE obligations SET repaid = ? WHERE name = ?`, repaid, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) UpdateObligationStatus(ctx context.Context, name string, status string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE obligations SET status = ? WHERE name = ?`, status, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (dbTransaction, error) {
	var t dbTransaction
	err := row.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Kind, &t.Account,
		&t.Installments, &t.InterestRate, &t.CutDay, &t.Source, &t.SyncStatus, &t.SyncAttempts, &t.CreatedAt)
	return t, err
}

func scanTransactions(rows *sql.Rows) ([]dbTransaction, error) {
	var out []dbTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
