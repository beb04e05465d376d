package core

import (
	"time"

	"retailcore/pkg/domain"

	"github.com/google/uuid"
)

// StateChange describes a committed request lifecycle event: a status
// transition, or a creation with an empty From. Events are emitted after the
// transaction commits; delivery is best effort and never affects the outcome
// of the operation that produced them.
type StateChange struct {
	ID         string            `json:"id"`
	Entity     domain.EntityType `json:"entity"`
	EntityID   string            `json:"entity_id"`
	StoreID    string            `json:"store_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	ActorEmail string            `json:"actor_email"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventSink receives committed state changes.
type EventSink interface {
	Publish(event StateChange)
}

type noopSink struct{}

func (noopSink) Publish(StateChange) {}

func newStateChange(entity domain.EntityType, entityID, storeID, from, to string, actor domain.Actor, at time.Time) StateChange {
	return StateChange{
		ID:         uuid.NewString(),
		Entity:     entity,
		EntityID:   entityID,
		StoreID:    storeID,
		From:       from,
		To:         to,
		ActorEmail: actor.Email,
		OccurredAt: at,
	}
}
