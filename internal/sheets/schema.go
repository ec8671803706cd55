package sheets

import (
	"cuentas/internal/core"
)

// SchemaVersion identifies the positional row layout this code writes.
// Version 1 was the original 8-column layout without financing fields;
// version 2 appended MESES, INTERES and CORTE and made every append emit
// the full column set. Readers accept both: missing trailing columns fall
// back to the same defaults the writer pads with.
const SchemaVersion = 2

// Transaction sheet columns. Appends always emit all of them, padding the
// unused ones with neutral defaults, so the flat positional layout stays a
// stable contract with the store.
const (
	TxColSource = iota // ORIGEN
	TxColDate          // FECHA
	TxColDesc          // DESCRIPCION
	TxColAmount        // IMPORTE
	TxColMonths        // MESES (installment count, 1 = lump sum)
	TxColRate          // INTERES (flat %, 0 = none)
	TxColKind          // TIPO
	TxColAccount       // BANCO
	TxColCutDay        // CORTE (statement cut day, 0 = n/a)
	TxColTag           // CATEGORIA
	TxColNotes         // NOTAS
	TxColCount
)

// Obligation sheet columns.
const (
	ObColName = iota // NOMBRE
	ObColCategory    // CATEGORIA
	ObColPrincipal   // PRINCIPAL
	ObColRepaid      // ABONADO
	ObColTerm        // PLAZO_MESES
	ObColRate        // INTERES
	ObColCutDay      // CORTE
	ObColDueDay      // DIA_PAGO
	ObColLimit       // LIMITE
	ObColStatus      // ESTADO
	ObColCount
)

const dateLayout = "2006-01-02"

// TransactionRow flattens a transaction into its positional row.
func TransactionRow(t core.Transaction) []any {
	source := t.Source
	if source == "" {
		source = "Manual"
	}
	tag := core.FirstToken(t.Description)
	if tag == "" {
		tag = "-"
	}
	row := make([]any, TxColCount)
	row[TxColSource] = source
	row[TxColDate] = t.Date.Format(dateLayout)
	row[TxColDesc] = t.Description
	row[TxColAmount] = t.Amount
	row[TxColMonths] = t.Installments
	row[TxColRate] = t.InterestRate
	row[TxColKind] = string(t.Kind)
	row[TxColAccount] = t.Account
	row[TxColCutDay] = t.CutDay
	row[TxColTag] = tag
	row[TxColNotes] = "-"
	return row
}

// ParseTransactionRow reads a positional row back into a transaction.
// Loose cells recover with safe defaults (meses=1, interés=0, corte=0); an
// unparsable date leaves the zero time, which excludes the row from
// projection downstream instead of failing the batch.
func ParseTransactionRow(cols []string) core.Transaction {
	t := core.Transaction{
		Source:       col(cols, TxColSource),
		Description:  col(cols, TxColDesc),
		Kind:         core.ParseKind(col(cols, TxColKind)),
		Account:      col(cols, TxColAccount),
		Installments: core.ParseIntDefault(col(cols, TxColMonths), 1),
		InterestRate: core.ParseFloatDefault(col(cols, TxColRate), 0),
		CutDay:       core.ParseIntDefault(col(cols, TxColCutDay), 0),
	}
	if t.Installments < 1 {
		t.Installments = 1
	}
	if d, ok := core.ParseDate(col(cols, TxColDate)); ok {
		t.Date = d
	}
	t.Amount = core.ParseFloatDefault(col(cols, TxColAmount), 0)
	return t
}

// ObligationRow flattens an obligation into its positional row.
func ObligationRow(o core.Obligation) []any {
	status := o.Status
	if status == "" {
		status = core.Active
	}
	row := make([]any, ObColCount)
	row[ObColName] = o.Name
	row[ObColCategory] = string(o.Category)
	row[ObColPrincipal] = o.Principal
	row[ObColRepaid] = o.Repaid
	row[ObColTerm] = o.TermMonths
	row[ObColRate] = o.InterestRate
	row[ObColCutDay] = o.CutDay
	row[ObColDueDay] = o.DueDay
	row[ObColLimit] = o.CreditLimit
	row[ObColStatus] = string(status)
	return row
}

// ParseObligationRow reads a positional row back into an obligation. Rows
// without a name or with an unknown category are not obligations (headers,
// stray notes) and report ok=false.
func ParseObligationRow(cols []string) (core.Obligation, bool) {
	o := core.Obligation{
		Name:         col(cols, ObColName),
		Category:     core.ObligationCategory(col(cols, ObColCategory)),
		Principal:    core.ParseFloatDefault(col(cols, ObColPrincipal), 0),
		Repaid:       core.ParseFloatDefault(col(cols, ObColRepaid), 0),
		TermMonths:   core.ParseIntDefault(col(cols, ObColTerm), 1),
		InterestRate: core.ParseFloatDefault(col(cols, ObColRate), 0),
		CutDay:       core.ParseIntDefault(col(cols, ObColCutDay), 0),
		DueDay:       core.ParseIntDefault(col(cols, ObColDueDay), 0),
		CreditLimit:  core.ParseFloatDefault(col(cols, ObColLimit), 0),
		Status:       core.Status(col(cols, ObColStatus)),
	}
	if o.Name == "" || !o.Category.IsValid() {
		return core.Obligation{}, false
	}
	if o.Status != core.Closed {
		o.Status = core.Active
	}
	return o, true
}

func col(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}
