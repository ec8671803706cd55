package backend

import (
	"context"

	"cuentas/internal/sheets"
)

// Store is the unified data backend: everything the HTTP layer and the
// workers need from a store, regardless of where the rows live.
type Store interface {
	sheets.TransactionAppender
	sheets.TransactionLister
	sheets.ObligationAppender
	sheets.ObligationLister
	sheets.ObligationUpdater
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result carries the created store and its optional cleanup.
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds what each backend variant needs to come up.
type Config struct {
	Type Type

	// SQLite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
}

type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	}
	return false
}
