package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cuentas/internal/core"
	"cuentas/internal/services"
	"cuentas/internal/sheets"
)

const dateLayout = "2006-01-02"

type accountSummary struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Balance          float64 `json:"balance"`
	SuggestedPayment float64 `json:"suggested_payment"`
	Status           string  `json:"status"`
	CreditLimit      float64 `json:"credit_limit,omitempty"`
}

type dashboardResponse struct {
	TotalIncome  float64          `json:"total_income"`
	TotalExpense float64          `json:"total_expense"`
	Net          float64          `json:"net"`
	Accounts     []accountSummary `json:"accounts"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

type calendarEventJSON struct {
	DueDate    string  `json:"due_date"`
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	SourceKind string  `json:"source_kind"`
}

type alertJSON struct {
	Label    string  `json:"label"`
	DueDate  string  `json:"due_date"`
	Amount   float64 `json:"amount"`
	DaysLeft int     `json:"days_left"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
}

type calendarResponse struct {
	Reference string              `json:"reference"`
	Events    []calendarEventJSON `json:"events"`
	Alerts    []alertJSON         `json:"alerts"`
}

type installmentJSON struct {
	DueDate      string  `json:"due_date"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	SignedAmount float64 `json:"signed_amount"`
	CategoryTag  string  `json:"category_tag"`
	FlowType     string  `json:"flow_type"`
}

type skippedRowJSON struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type projectionResponse struct {
	Records []installmentJSON `json:"records"`
	Skipped []skippedRowJSON  `json:"skipped"`
}

type transactionJSON struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Kind         string  `json:"kind"`
	Account      string  `json:"account"`
	Installments int     `json:"installments"`
	InterestRate float64 `json:"interest_rate"`
	CutDay       int     `json:"cut_day"`
	Source       string  `json:"source"`
}

type obligationJSON struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Principal    float64 `json:"principal"`
	Repaid       float64 `json:"repaid"`
	TermMonths   int     `json:"term_months"`
	InterestRate float64 `json:"interest_rate"`
	CutDay       int     `json:"cut_day"`
	DueDay       int     `json:"due_day"`
	CreditLimit  float64 `json:"credit_limit"`
	Status       string  `json:"status"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if bad := requireMethod(w, r, http.MethodGet); bad {
		return
	}

	if resp, ok := s.dashboardCache.Get("dashboard"); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	obs, txs, err := s.loadAll(r)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "store read failed", err)
		return
	}

	resp := dashboardResponse{GeneratedAt: time.Now().UTC()}
	for _, t := range txs {
		if signed := t.Signed(); signed > 0 {
			resp.TotalIncome += signed
		} else {
			resp.TotalExpense -= signed
		}
	}
	resp.Net = resp.TotalIncome - resp.TotalExpense
	for _, ob := range obs {
		balance := services.Balance(ob, txs)
		resp.Accounts = append(resp.Accounts, accountSummary{
			Name:             ob.Name,
			Category:         string(ob.Category),
			Balance:          balance,
			SuggestedPayment: services.SuggestedPayment(ob, balance),
			Status:           string(services.EffectiveStatus(ob)),
			CreditLimit:      ob.CreditLimit,
		})
	}

	s.dashboardCache.Set("dashboard", resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if bad := requireMethod(w, r, http.MethodGet); bad {
		return
	}

	reference := parseReferenceDate(r)
	key := reference.Format(dateLayout)

	if resp, ok := s.calendarCache.Get(key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	obs, txs, err := s.loadAll(r)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "store read failed", err)
		return
	}

	events, alerts := services.BuildCalendar(obs, txs, reference)
	resp := calendarResponse{
		Reference: key,
		Events:    make([]calendarEventJSON, 0, len(events)),
		Alerts:    make([]alertJSON, 0, len(alerts)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, calendarEventJSON{
			DueDate:    ev.DueDate.Format(dateLayout),
			Label:      ev.Label,
			Amount:     ev.Amount,
			SourceKind: string(ev.SourceKind),
		})
	}
	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, alertJSON{
			Label:    a.Event.Label,
			DueDate:  a.Event.DueDate.Format(dateLayout),
			Amount:   a.Event.Amount,
			DaysLeft: a.DaysLeft,
			Severity: string(a.Severity),
			Message:  a.Message,
		})
	}

	s.calendarCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if bad := requireMethod(w, r, http.MethodGet); bad {
		return
	}

	if resp, ok := s.projectionCache.Get("projection"); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "store read failed", err)
		return
	}

	result := services.ExpandAll(txs)
	resp := projectionResponse{
		Records: make([]installmentJSON, 0, len(result.Records)),
		Skipped: make([]skippedRowJSON, 0, len(result.Skipped)),
	}
	for _, rec := range result.Records {
		resp.Records = append(resp.Records, installmentJSON{
			DueDate:      rec.DueDate.Format(dateLayout),
			Description:  rec.Description,
			Amount:       rec.Amount,
			SignedAmount: rec.SignedAmount,
			CategoryTag:  rec.CategoryTag,
			FlowType:     string(rec.FlowType),
		})
	}
	for _, sk := range result.Skipped {
		resp.Skipped = append(resp.Skipped, skippedRowJSON{
			Index:  sk.Index,
			Reason: sk.Reason,
		})
	}

	s.projectionCache.Set("projection", resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.store.ListTransactions(r.Context())
		if err != nil {
			writeError(w, r, http.StatusBadGateway, "store read failed", err)
			return
		}
		out := make([]transactionJSON, 0, len(txs))
		for _, t := range txs {
			out = append(out, toTransactionJSON(t))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		t, err := parseTransactionRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		ref, err := s.store.AppendTransaction(r.Context(), t)
		if err != nil {
			status := http.StatusBadGateway
			if isValidationError(err) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, r, status, "could not save transaction", err)
			return
		}
		s.flushReadCaches()
		writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleObligations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		obs, err := s.store.ListObligations(r.Context())
		if err != nil {
			writeError(w, r, http.StatusBadGateway, "store read failed", err)
			return
		}
		out := make([]obligationJSON, 0, len(obs))
		for _, ob := range obs {
			out = append(out, toObligationJSON(ob))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		ob, err := parseObligationRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		ref, err := s.store.AppendObligation(r.Context(), ob)
		if err != nil {
			status := http.StatusBadGateway
			if isValidationError(err) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, r, status, "could not save obligation", err)
			return
		}
		s.flushReadCaches()
		writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRepay registers a repayment against a named obligation: it bumps
// the repaid total, records the matching Pago movement, and closes loans
// and receivables that reach their principal.
func (s *Server) handleRepay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseRepayRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	obs, err := s.store.ListObligations(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "store read failed", err)
		return
	}

	var target *core.Obligation
	for i := range obs {
		if obs[i].Name == req.Name {
			target = &obs[i]
			break
		}
	}
	if target == nil {
		writeError(w, r, http.StatusNotFound, "obligation not found", nil)
		return
	}

	newRepaid := target.Repaid + req.Amount
	if err := s.store.UpdateRepaid(r.Context(), req.Name, newRepaid); err != nil {
		writeError(w, r, http.StatusBadGateway, "could not update obligation", err)
		return
	}

	if _, err := s.store.AppendTransaction(r.Context(), core.Transaction{
		Date:         time.Now().UTC().Truncate(24 * time.Hour),
		Description:  "Abono " + req.Name,
		Amount:       req.Amount,
		Kind:         core.Pago,
		Account:      req.Name,
		Installments: 1,
		Source:       "Manual",
	}); err != nil {
		slog.WarnContext(r.Context(), "Repayment movement not recorded", "name", req.Name, "error", err)
	}

	updated := *target
	updated.Repaid = newRepaid
	status := services.EffectiveStatus(updated)
	if status == core.Closed && target.Status != core.Closed {
		if err := s.store.UpdateStatus(r.Context(), req.Name, core.Closed); err != nil {
			slog.WarnContext(r.Context(), "Auto-close failed", "name", req.Name, "error", err)
		}
	}

	s.flushReadCaches()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   req.Name,
		"repaid": newRepaid,
		"status": string(status),
	})
}

// handleInvestments passes the investments sheet through untouched. Backends
// without that sheet answer 404.
func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	if bad := requireMethod(w, r, http.MethodGet); bad {
		return
	}

	lister, ok := s.store.(sheets.InvestmentLister)
	if !ok {
		writeError(w, r, http.StatusNotFound, "investments not available on this backend", nil)
		return
	}

	rows, err := lister.ListInvestmentsRaw(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "store read failed", err)
		return
	}
	if rows == nil {
		rows = [][]string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) loadAll(r *http.Request) ([]core.Obligation, []core.Transaction, error) {
	obs, err := s.store.ListObligations(r.Context())
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return obs, txs, nil
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		Date:         t.Date.Format(dateLayout),
		Description:  t.Description,
		Amount:       t.Amount,
		Kind:         string(t.Kind),
		Account:      t.Account,
		Installments: t.Installments,
		InterestRate: t.InterestRate,
		CutDay:       t.CutDay,
		Source:       t.Source,
	}
}

func toObligationJSON(ob core.Obligation) obligationJSON {
	return obligationJSON{
		Name:         ob.Name,
		Category:     string(ob.Category),
		Principal:    ob.Principal,
		Repaid:       ob.Repaid,
		TermMonths:   ob.TermMonths,
		InterestRate: ob.InterestRate,
		CutDay:       ob.CutDay,
		DueDay:       ob.DueDay,
		CreditLimit:  ob.CreditLimit,
		Status:       string(ob.Status),
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return false
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), msg, "error", err, "url", r.URL.Path)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidInstallments,
		core.ErrInvalidDay,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrInvalidCategory,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
