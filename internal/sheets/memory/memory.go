package memory

import (
	"context"
	"fmt"
	"sync"

	"cuentas/internal/core"
)

// Store keeps transactions and obligations in process memory. Used for
// development and for exercising the HTTP layer and workers in tests
// without a spreadsheet.
type Store struct {
	mu  sync.Mutex
	txs []core.Transaction
	obs []core.Obligation
}

func New() *Store {
	return &Store{}
}

// Seed replaces the store contents. Test helper.
func (s *Store) Seed(txs []core.Transaction, obs []core.Obligation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), txs...)
	s.obs = append([]core.Obligation(nil), obs...)
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return fmt.Sprintf("mem:tx:%d", len(s.txs)), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) AppendObligation(_ context.Context, o core.Obligation) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	if o.Status == "" {
		o.Status = core.Active
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs = append(s.obs, o)
	return fmt.Sprintf("mem:ob:%d", len(s.obs)), nil
}

func (s *Store) ListObligations(_ context.Context) ([]core.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Obligation(nil), s.obs...), nil
}

func (s *Store) UpdateRepaid(_ context.Context, name string, repaid float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.obs {
		if s.obs[i].Name == name {
			s.obs[i].Repaid = repaid
			return nil
		}
	}
	return fmt.Errorf("obligation %q not found", name)
}

func (s *Store) UpdateStatus(_ context.Context, name string, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.obs {
		if s.obs[i].Name == name {
			s.obs[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("obligation %q not found", name)
}
