package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Name identifies one persisted collection.
type Name string

const (
	Customers   Name = "customers"
	Technicians Name = "technicians"
	Tickets     Name = "tickets"
)

var ErrUnknownCollection = errors.New("unknown collection")

func Names() []Name {
	return []Name{Customers, Technicians, Tickets}
}

func (n Name) validate() error {
	for _, known := range Names() {
		if n == known {
			return nil
		}
	}
	return fmt.Errorf("storage: %w: %q", ErrUnknownCollection, string(n))
}

// Gateway loads and saves whole collections and issues ticket numbers.
//
// Save always replaces the full collection. Load on a collection that was
// never written returns an empty slice. NextTicketNumber increments and
// persists the counter before returning, so a number handed out is never
// handed out again even if the caller later fails to use it.
type Gateway interface {
	Init(ctx context.Context) error
	Ping(ctx context.Context) error
	Load(ctx context.Context, name Name) ([]json.RawMessage, error)
	Save(ctx context.Context, name Name, records []json.RawMessage) error
	NextTicketNumber(ctx context.Context) (int, error)
}
