package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"cuentas/internal/amqp"
	"cuentas/internal/core"
	gsheet "cuentas/internal/sheets/google"
	"cuentas/internal/sheets/memory"
	"cuentas/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	default:
		return f.createMemoryBackend()
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it the store still works locally and the
	// sync worker catches up from the pending table later.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange)
		}
	}

	store := &syncingStore{SQLiteRepository: repo, publisher: amqpClient}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Store: store,
		Cleanup: func() error {
			if amqpClient != nil {
				amqpClient.Close()
			}
			return repo.Close()
		},
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*Result, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets backend")
	return &Result{Store: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{Store: memory.New()}, nil
}

// syncingStore is the local-first composition: every transaction write
// lands in SQLite, then its id is queued for spreadsheet replay. A failed
// publish is logged and left to the worker's pending scan.
type syncingStore struct {
	*storage.SQLiteRepository
	publisher *amqp.Client
}

func (s *syncingStore) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	ref, err := s.SQLiteRepository.AppendTransaction(ctx, t)
	if err != nil {
		return "", err
	}
	if s.publisher != nil {
		if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
			if perr = s.publisher.PublishTransactionSync(ctx, id); perr != nil {
				slog.WarnContext(ctx, "Failed to publish sync message, pending scan will retry",
					"id", id, "error", perr)
			}
		}
	}
	return ref, nil
}
