package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cuentas/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	errBadBody      = errors.New("invalid request body")
	errMissingDate  = errors.New("missing or invalid date")
	errMissingName  = errors.New("missing name")
	errBadAmount    = errors.New("missing or invalid amount")
	errBadReference = errors.New("invalid reference date")
)

type createTransactionRequest struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Kind         string  `json:"kind"`
	Account      string  `json:"account"`
	Installments int     `json:"installments"`
	InterestRate float64 `json:"interest_rate"`
	CutDay       int     `json:"cut_day"`
}

func parseTransactionRequest(r *http.Request) (core.Transaction, error) {
	var req createTransactionRequest
	if isFormRequest(r) {
		parsed, err := transactionFromForm(r)
		if err != nil {
			return core.Transaction{}, err
		}
		req = parsed
	} else if err := decodeBody(r, &req); err != nil {
		return core.Transaction{}, err
	}

	date, ok := core.ParseDate(strings.TrimSpace(req.Date))
	if !ok {
		return core.Transaction{}, errMissingDate
	}
	if req.Amount <= 0 {
		return core.Transaction{}, errBadAmount
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	t := core.Transaction{
		Date:         date,
		Description:  sanitizeInput(req.Description),
		Amount:       req.Amount,
		Kind:         core.ParseKind(req.Kind),
		Account:      sanitizeInput(req.Account),
		Installments: installments,
		InterestRate: req.InterestRate,
		CutDay:       req.CutDay,
		Source:       "Manual",
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

type createObligationRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Principal    float64 `json:"principal"`
	Repaid       float64 `json:"repaid"`
	TermMonths   int     `json:"term_months"`
	InterestRate float64 `json:"interest_rate"`
	CutDay       int     `json:"cut_day"`
	DueDay       int     `json:"due_day"`
	CreditLimit  float64 `json:"credit_limit"`
}

func parseObligationRequest(r *http.Request) (core.Obligation, error) {
	var req createObligationRequest
	if err := decodeBody(r, &req); err != nil {
		return core.Obligation{}, err
	}

	term := req.TermMonths
	if term < 1 {
		term = 1
	}

	ob := core.Obligation{
		Name:         sanitizeInput(req.Name),
		Category:     core.ObligationCategory(strings.TrimSpace(req.Category)),
		Principal:    req.Principal,
		Repaid:       req.Repaid,
		TermMonths:   term,
		InterestRate: req.InterestRate,
		CutDay:       req.CutDay,
		DueDay:       req.DueDay,
		CreditLimit:  req.CreditLimit,
		Status:       core.Active,
	}
	if err := ob.Validate(); err != nil {
		return core.Obligation{}, err
	}
	return ob, nil
}

type repayRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func parseRepayRequest(r *http.Request) (repayRequest, error) {
	var req repayRequest
	if err := decodeBody(r, &req); err != nil {
		return repayRequest{}, err
	}
	req.Name = sanitizeInput(req.Name)
	if req.Name == "" {
		return repayRequest{}, errMissingName
	}
	if req.Amount <= 0 {
		return repayRequest{}, errBadAmount
	}
	return req, nil
}

// parseReferenceDate reads the optional ?date= query parameter; today in
// UTC when absent or unparsable.
func parseReferenceDate(r *http.Request) time.Time {
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if d, ok := core.ParseDate(v); ok {
			return d
		}
	}
	now := time.Now().UTC()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// transactionFromForm reads a form-encoded create request. Numeric fields
// use the same loose parsing as store cells, so "450,00" works here too.
func transactionFromForm(r *http.Request) (createTransactionRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return createTransactionRequest{}, errBadBody
	}
	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		return createTransactionRequest{}, errBadAmount
	}
	return createTransactionRequest{
		Date:         r.PostFormValue("date"),
		Description:  r.PostFormValue("description"),
		Amount:       amount,
		Kind:         r.PostFormValue("kind"),
		Account:      r.PostFormValue("account"),
		Installments: core.ParseIntDefault(r.PostFormValue("installments"), 1),
		InterestRate: core.ParseFloatDefault(r.PostFormValue("interest_rate"), 0),
		CutDay:       core.ParseIntDefault(r.PostFormValue("cut_day"), 0),
	}, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
