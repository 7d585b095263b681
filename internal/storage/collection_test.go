package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func decodeWidget(raw json.RawMessage) (widget, error) {
	var w widget
	err := json.Unmarshal(raw, &w)
	return w, err
}

func TestCollectionInsertFindReplace(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestFileGateway(t)
	require.NoError(t, g.Init(ctx))
	c := NewCollection(g, Customers, decodeWidget)

	require.NoError(t, c.Insert(ctx, widget{ID: "a", Name: "first"}))
	require.NoError(t, c.Insert(ctx, widget{ID: "b", Name: "second"}))

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}, all)

	got, ok, err := c.Find(ctx, func(w widget) bool { return w.ID == "b" })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", got.Name)

	replaced, err := c.Replace(ctx, func(w widget) bool { return w.ID == "a" }, widget{ID: "a", Name: "renamed"})
	require.NoError(t, err)
	assert.True(t, replaced)

	replaced, err = c.Replace(ctx, func(w widget) bool { return w.ID == "zzz" }, widget{ID: "zzz"})
	require.NoError(t, err)
	assert.False(t, replaced)

	filtered, err := c.Filter(ctx, func(w widget) bool { return w.Name == "renamed" })
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "a", Name: "renamed"}}, filtered)

	all, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
}

func TestCollectionDecodeErrorNamesRecord(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestFileGateway(t)
	require.NoError(t, g.Save(ctx, Tickets, []json.RawMessage{json.RawMessage(`{"id":"ok"}`), json.RawMessage(`[1,2]`)}))

	_, err := NewCollection(g, Tickets, decodeWidget).List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tickets record 1")
}

func TestCollectionModify(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestFileGateway(t)
	c := NewCollection(g, Technicians, decodeWidget)
	require.NoError(t, c.Insert(ctx, widget{ID: "a", Name: "one"}))

	found, err := c.Modify(ctx, func(w widget) bool { return w.ID == "a" }, func(w *widget) error {
		w.Name = "two"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = c.Modify(ctx, func(w widget) bool { return w.ID == "a" }, func(w *widget) error {
		w.Name = "three"
		return assert.AnError
	})
	assert.True(t, found)
	assert.ErrorIs(t, err, assert.AnError)

	got, _, err := c.Find(ctx, func(w widget) bool { return w.ID == "a" })
	require.NoError(t, err)
	assert.Equal(t, "two", got.Name)

	found, err = c.Modify(ctx, func(w widget) bool { return w.ID == "b" }, func(w *widget) error { return nil })
	require.NoError(t, err)
	assert.False(t, found)
}
