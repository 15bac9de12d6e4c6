package domain

import "time"

// PushMessage is the payload handed to a push transport.
type PushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// WalletEventType names an event published to the configured broker.
type WalletEventType string

const (
	EventAccountRegistered WalletEventType = "account.registered"
	EventTransferCompleted WalletEventType = "transfer.completed"
	EventSpendRecorded     WalletEventType = "spend.recorded"
)

// WalletEvent is a fire-and-forget notification about a committed change.
type WalletEvent struct {
	EventID    string            `json:"eventID"`
	Type       WalletEventType   `json:"type"`
	AccountID  string            `json:"accountID"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data"`
}
