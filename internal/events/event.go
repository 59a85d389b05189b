package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	CategoryCreated      Type = "category.created"
	CategoryRenamed      Type = "category.renamed"
	CategoryDeleted      Type = "category.deleted"
	CategoryForceDeleted Type = "category.force_deleted"
	ItemCreated          Type = "item.created"
	ItemUpdated          Type = "item.updated"
	ItemDeleted          Type = "item.deleted"
)

func (t Type) IsCatalog() bool {
	switch t {
	case CategoryCreated, CategoryRenamed, CategoryDeleted, CategoryForceDeleted,
		ItemCreated, ItemUpdated, ItemDeleted:
		return true
	}
	return false
}

// Event is a committed catalog change.
type Event struct {
	EventID   string    `json:"event_id"`
	EventType Type      `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, entityID string, payload any) Event {
	return Event{
		EventID:   uuid.New().String(),
		EventType: t,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher receives events after the write they describe has committed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
