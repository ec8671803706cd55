package amqp

import (
	"encoding/json"
	"time"

	"cuentas/internal/core"
)

// TransactionSyncMessage queues one locally written transaction for replay
// to the spreadsheet. Only the local id travels; the worker rehydrates the
// row from the database so the queue never carries stale data.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AlertMessage carries a due-date alert to the notification channel.
type AlertMessage struct {
	Label     string        `json:"label"`
	DueDate   time.Time     `json:"due_date"`
	Amount    float64       `json:"amount"`
	DaysLeft  int           `json:"days_left"`
	Severity  core.Severity `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewAlertMessage(a core.Alert) *AlertMessage {
	return &AlertMessage{
		Label:     a.Event.Label,
		DueDate:   a.Event.DueDate,
		Amount:    a.Event.Amount,
		DaysLeft:  a.DaysLeft,
		Severity:  a.Severity,
		Message:   a.Message,
		Timestamp: time.Now(),
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CommandMessage is an inbound free-text entry from the chat channel,
// e.g. "450 luz".
type CommandMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *CommandMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CommandMessageFromJSON(data []byte) (*CommandMessage, error) {
	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
