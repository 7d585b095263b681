package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed repository over one gateway collection. It keeps no
// state between calls: every method re-reads the collection, and every write
// rewrites it in full.
type Collection[T any] struct {
	gateway Gateway
	name    Name
	decode  func(json.RawMessage) (T, error)
}

func NewCollection[T any](gateway Gateway, name Name, decode func(json.RawMessage) (T, error)) *Collection[T] {
	return &Collection[T]{gateway: gateway, name: name, decode: decode}
}

func (c *Collection[T]) Name() Name {
	return c.name
}

// List returns every record in storage order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	raws, err := c.gateway.Load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		rec, err := c.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("storage: %s record %d: %w", c.name, i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Filter returns the records matching keep, in storage order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, rec := range all {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Find returns the first record matching match.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	all, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, rec := range all {
		if match(rec) {
			return rec, true, nil
		}
	}
	return zero, false, nil
}

// Insert appends rec and persists the collection.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	all, err := c.List(ctx)
	if err != nil {
		return err
	}
	return c.ReplaceAll(ctx, append(all, rec))
}

// Replace overwrites the first record matching match with rec. It reports
// false without writing anything when no record matches.
func (c *Collection[T]) Replace(ctx context.Context, match func(T) bool, rec T) (bool, error) {
	all, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if match(all[i]) {
			all[i] = rec
			return true, c.ReplaceAll(ctx, all)
		}
	}
	return false, nil
}

// Modify applies mutate to the first record matching match and persists the
// collection. If mutate returns an error nothing is written.
func (c *Collection[T]) Modify(ctx context.Context, match func(T) bool, mutate func(*T) error) (bool, error) {
	all, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if match(all[i]) {
			if err := mutate(&all[i]); err != nil {
				return true, err
			}
			return true, c.ReplaceAll(ctx, all)
		}
	}
	return false, nil
}

// ReplaceAll persists records as the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	raws := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("storage: encode %s record: %w", c.name, err)
		}
		raws = append(raws, raw)
	}
	return c.gateway.Save(ctx, c.name, raws)
}
