// Package events defines the event notification port of the ledger
// engine. Components call it after a successful commit to announce state
// transitions; delivery guarantees belong to the bus, not to the engine.
package events

import (
	"context"

	"aurum/internal/models"
)

// EventType is the announced state transition.
type EventType string

const (
	EventOperationAccepted EventType = "ACCEPTED"
	EventOperationReverted EventType = "REVERTED"
)

// Side pairs the wallet account snapshot after settlement with the audit
// row that mutation produced.
type Side struct {
	Account     models.WalletAccount            `json:"account"`
	Transaction models.WalletAccountTransaction `json:"transaction"`
}

// OperationEvent is the payload announced for every settled transition.
// Debit and Credit are nil for the side a one-sided operation lacks.
type OperationEvent struct {
	Type      EventType        `json:"type"`
	Operation models.Operation `json:"operation"`
	Debit     *Side            `json:"debit,omitempty"`
	Credit    *Side            `json:"credit,omitempty"`
}

// Publisher is the port implemented by the message bus adapter.
type Publisher interface {
	PublishOperationEvent(ctx context.Context, event OperationEvent) error
}

// NoopPublisher discards events. Used in tests and when the bus is down.
type NoopPublisher struct{}

func (NoopPublisher) PublishOperationEvent(context.Context, OperationEvent) error { return nil }
