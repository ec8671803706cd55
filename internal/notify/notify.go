package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cuentas/internal/amqp"
	"cuentas/internal/backend"
	"cuentas/internal/services"
)

// Broker is the slice of the AMQP client the notification service needs.
type Broker interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
	ConsumeCommands(ctx context.Context, handler func(*amqp.CommandMessage) error) error
}

// Service is the notification side of the system: it pushes due-date
// alerts onto the alert queue on a schedule, and turns inbound free-text
// commands into stored transactions.
type Service struct {
	store    backend.Store
	client   Broker
	interval time.Duration
}

func New(store backend.Store, client Broker, interval time.Duration) *Service {
	return &Service{store: store, client: client, interval: interval}
}

// Run starts the alert ticker and the command consumer, stopping both
// when ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.runAlertLoop(ctx)
	})

	g.Go(func() error {
		err := s.client.ConsumeCommands(ctx, func(msg *amqp.CommandMessage) error {
			return s.handleCommand(ctx, msg)
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	})

	return g.Wait()
}

func (s *Service) runAlertLoop(ctx context.Context) error {
	// One pass at startup, then on every tick.
	if err := s.PublishDueAlerts(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial alert pass failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.PublishDueAlerts(ctx); err != nil {
				slog.ErrorContext(ctx, "Alert pass failed", "error", err)
			}
		}
	}
}

// PublishDueAlerts rebuilds the calendar against today and publishes every
// alert inside the warning window.
func (s *Service) PublishDueAlerts(ctx context.Context) error {
	obs, err := s.store.ListObligations(ctx)
	if err != nil {
		return fmt.Errorf("list obligations: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	_, alerts := services.BuildCalendar(obs, txs, today)

	for _, a := range alerts {
		if err := s.client.PublishAlert(ctx, amqp.NewAlertMessage(a)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish alert",
				"label", a.Event.Label, "error", err)
		}
	}

	slog.InfoContext(ctx, "Alert pass completed", "alerts", len(alerts))
	return nil
}

// handleCommand parses a free-text entry and stores the transaction.
// Unparsable text is dropped with a warning rather than requeued; the
// sender's text will not get better on retry.
func (s *Service) handleCommand(ctx context.Context, msg *amqp.CommandMessage) error {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	t, err := services.ParseCommand(msg.Text, today)
	if err != nil {
		slog.WarnContext(ctx, "Dropping unparsable command",
			"text", msg.Text, "sender", msg.Sender, "error", err)
		return nil
	}

	ref, err := s.store.AppendTransaction(ctx, t)
	if err != nil {
		return fmt.Errorf("store command transaction: %w", err)
	}

	slog.InfoContext(ctx, "Command stored",
		"description", t.Description, "amount", t.Amount, "kind", t.Kind, "ref", ref)
	return nil
}
