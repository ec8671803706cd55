package notify

import (
	"context"
	"testing"
	"time"

	"cuentas/internal/amqp"
	"cuentas/internal/core"
	"cuentas/internal/sheets/memory"
)

type fakeBroker struct {
	published []*amqp.AlertMessage
}

func (f *fakeBroker) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeBroker) ConsumeCommands(ctx context.Context, _ func(*amqp.CommandMessage) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPublishDueAlerts(t *testing.T) {
	store := memory.New()
	now := time.Now().UTC()
	dueSoon := now.AddDate(0, 0, 2).Day()

	store.Seed(
		[]core.Transaction{
			{Date: core.NewDate(now.Year(), int(now.Month()), 1), Description: "Compra",
				Amount: 500, Kind: core.Gasto, Account: "CardA", Installments: 1},
		},
		[]core.Obligation{
			{Name: "CardA", Category: core.RevolvingCredit, DueDay: dueSoon, Status: core.Active},
		},
	)

	broker := &fakeBroker{}
	svc := New(store, broker, time.Hour)

	if err := svc.PublishDueAlerts(context.Background()); err != nil {
		t.Fatalf("PublishDueAlerts: %v", err)
	}
	if len(broker.published) == 0 {
		t.Fatal("no alerts published for obligation due in 2 days")
	}
	if broker.published[0].Label != "CardA" {
		t.Errorf("label = %q", broker.published[0].Label)
	}
}

func TestHandleCommand(t *testing.T) {
	store := memory.New()
	svc := New(store, &fakeBroker{}, time.Hour)

	err := svc.handleCommand(context.Background(), &amqp.CommandMessage{Text: "450 luz"})
	if err != nil {
		t.Fatalf("handleCommand: %v", err)
	}

	txs, _ := store.ListTransactions(context.Background())
	if len(txs) != 1 || txs[0].Amount != 450 || txs[0].Source != "Bot" {
		t.Errorf("stored = %+v", txs)
	}
}

func TestHandleCommand_DropsGarbage(t *testing.T) {
	store := memory.New()
	svc := New(store, &fakeBroker{}, time.Hour)

	if err := svc.handleCommand(context.Background(), &amqp.CommandMessage{Text: "hola que tal"}); err != nil {
		t.Fatalf("unparsable command should be dropped, got %v", err)
	}
	txs, _ := store.ListTransactions(context.Background())
	if len(txs) != 0 {
		t.Errorf("garbage stored: %+v", txs)
	}
}
