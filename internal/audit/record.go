// Package audit keeps the append-only trail of reservation mutations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action tags what a mutation did.
type Action string

const (
	ActionCreated         Action = "reservation.created"
	ActionUpdated         Action = "reservation.updated"
	ActionDeleted         Action = "reservation.deleted"
	ActionStatusChanged   Action = "reservation.status_changed"
	ActionConfirmed       Action = "reservation.confirmed"
	ActionCancelled       Action = "reservation.cancelled"
	ActionCheckedIn       Action = "reservation.checked_in"
	ActionCheckedOut      Action = "reservation.checked_out"
	ActionNoShow          Action = "reservation.no_show"
	ActionPaymentRecorded Action = "reservation.payment_recorded"
)

// EntityReservation is the entity type of every reservation record.
const EntityReservation = "reservation"

// Record is one immutable audit entry.
type Record struct {
	ID         uuid.UUID       `json:"id"`
	ActorID    uuid.UUID       `json:"actor_id"`
	Action     Action          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds a reservation record. Nil snapshots are left empty.
func New(actorID uuid.UUID, action Action, entityID uuid.UUID, before, after interface{}) (Record, error) {
	b, err := marshalSnapshot(before)
	if err != nil {
		return Record{}, fmt.Errorf("marshal before snapshot: %w", err)
	}
	a, err := marshalSnapshot(after)
	if err != nil {
		return Record{}, fmt.Errorf("marshal after snapshot: %w", err)
	}
	return Record{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: EntityReservation,
		EntityID:   entityID,
		Before:     b,
		After:      a,
		OccurredAt: time.Now().UTC(),
	}, nil
}

func marshalSnapshot(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Sink persists audit records.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// Reader lists the trail of an entity, oldest first.
type Reader interface {
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]Record, error)
}

// Spool holds records whose sink write failed until they can be replayed.
type Spool interface {
	Put(rec Record) error
	Drain(fn func(Record) error) (int, error)
}
