package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuentas/internal/core"
	ports "cuentas/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client talks to the master spreadsheet. Three worksheets back the system:
// movements (required), obligations (optional, empty when absent) and
// investments (outside the engine, exposed as a raw read only).
type Client struct {
	svc              *gsheet.Service
	spreadsheetID    string
	movementsSheet   string
	obligationsSheet string
	investmentsSheet string
}

// Ensure interface conformance
var (
	_ ports.TransactionAppender = (*Client)(nil)
	_ ports.TransactionLister   = (*Client)(nil)
	_ ports.ObligationAppender  = (*Client)(nil)
	_ ports.ObligationLister    = (*Client)(nil)
	_ ports.ObligationUpdater   = (*Client)(nil)
	_ ports.InvestmentLister    = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: MOVEMENTS_SHEET_NAME (default "Movimientos"),
// OBLIGATIONS_SHEET_NAME (default "Deudas"),
// INVESTMENTS_SHEET_NAME (default "Inversiones").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	movements := strings.TrimSpace(os.Getenv("MOVEMENTS_SHEET_NAME"))
	if movements == "" {
		movements = "Movimientos"
	}
	obligations := strings.TrimSpace(os.Getenv("OBLIGATIONS_SHEET_NAME"))
	if obligations == "" {
		obligations = "Deudas"
	}
	investments := strings.TrimSpace(os.Getenv("INVESTMENTS_SHEET_NAME"))
	if investments == "" {
		investments = "Inversiones"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		movementsSheet:   movements,
		obligationsSheet: obligations,
		investmentsSheet: investments,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendTransaction appends one positional row to the movements sheet.
// All schema columns are always written, padded with defaults, so older
// readers keep finding fields where they expect them.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{ports.TransactionRow(t)}}
	rng := fmt.Sprintf("%s!A:K", c.movementsSheet)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.movementsSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Transaction appended to sheet",
		"sheet", c.movementsSheet, "ref", ref, "description", t.Description)
	return ref, nil
}

// ListTransactions reads the whole movements sheet. The movements sheet is
// the primary data set: a read failure here is surfaced, not degraded.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:K", c.movementsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.Transaction
	for i, row := range resp.Values {
		cols := toStrings(row)
		if isTransactionHeader(i, cols) {
			continue
		}
		t := ports.ParseTransactionRow(cols)
		if strings.TrimSpace(t.Description) == "" && t.Amount == 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// AppendObligation appends one positional row to the obligations sheet.
func (c *Client) AppendObligation(ctx context.Context, o core.Obligation) (string, error) {
	if err := o.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{ports.ObligationRow(o)}}
	rng := fmt.Sprintf("%s!A:J", c.obligationsSheet)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.obligationsSheet, err)
	}
	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ListObligations reads the obligations sheet. A missing worksheet yields an
// empty set: obligations are secondary data and their absence is normal on a
// fresh spreadsheet.
func (c *Client) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:J", c.obligationsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			slog.WarnContext(ctx, "Obligations sheet missing, defaulting to empty set",
				"sheet", c.obligationsSheet)
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.Obligation
	for _, row := range resp.Values {
		if ob, ok := ports.ParseObligationRow(toStrings(row)); ok {
			out = append(out, ob)
		}
	}
	return out, nil
}

// UpdateRepaid sets the ABONADO cell of the named obligation.
func (c *Client) UpdateRepaid(ctx context.Context, name string, repaid float64) error {
	return c.updateObligationCell(ctx, name, ports.ObColRepaid, repaid)
}

// UpdateStatus sets the ESTADO cell of the named obligation.
func (c *Client) UpdateStatus(ctx context.Context, name string, status core.Status) error {
	return c.updateObligationCell(ctx, name, ports.ObColStatus, string(status))
}

func (c *Client) updateObligationCell(ctx context.Context, name string, colIdx int, value any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rowIdx, err := c.findObligationRow(ctx, name)
	if err != nil {
		return err
	}

	cell := fmt.Sprintf("%s!%s%d", c.obligationsSheet, columnLetter(colIdx), rowIdx)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", cell, err)
	}
	slog.InfoContext(ctx, "Obligation cell updated", "cell", cell, "name", name)
	return nil
}

// findObligationRow returns the 1-based sheet row of the named obligation.
func (c *Client) findObligationRow(ctx context.Context, name string) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.obligationsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), strings.TrimSpace(name)) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("obligation %q not found in sheet %s", name, c.obligationsSheet)
}

// ListInvestmentsRaw returns the investments sheet as raw rows for the
// presentation layer. No engine logic touches these.
func (c *Client) ListInvestmentsRaw(ctx context.Context) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", c.investmentsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// isTransactionHeader detects a header row: first row whose amount column is
// non-numeric.
func isTransactionHeader(idx int, cols []string) bool {
	if idx != 0 || len(cols) <= ports.TxColAmount {
		return false
	}
	_, err := core.ParseAmount(cols[ports.TxColAmount])
	return err != nil
}

// isMissingSheet reports whether the API error means the worksheet itself
// does not exist (as opposed to connectivity or auth failures).
func isMissingSheet(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unable to parse range") || strings.Contains(msg, "not found")
}

// columnLetter converts a zero-based column index into its A1 letter.
// Obligation sheets stay well under 26 columns.
func columnLetter(idx int) string {
	return string(rune('A' + idx))
}
