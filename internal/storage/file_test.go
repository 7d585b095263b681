package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(dir string) FilePaths {
	return FilePaths{
		Dir: dir,
		Collections: map[Name]string{
			Customers:   filepath.Join(dir, "customers.json"),
			Technicians: filepath.Join(dir, "technicians.json"),
			Tickets:     filepath.Join(dir, "tickets.json"),
		},
		Counter: filepath.Join(dir, "ticket_counter.txt"),
	}
}

func newTestFileGateway(t *testing.T) (*FileGateway, FilePaths) {
	t.Helper()
	paths := testPaths(filepath.Join(t.TempDir(), "data"))
	g, err := NewFileGateway(paths, zerolog.Nop())
	require.NoError(t, err)
	return g, paths
}

func TestFileGatewayLoadMissingIsEmpty(t *testing.T) {
	g, _ := newTestFileGateway(t)
	records, err := g.Load(context.Background(), Tickets)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFileGatewayInitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	g, paths := newTestFileGateway(t)
	require.NoError(t, g.Init(ctx))

	for _, name := range Names() {
		data, err := os.ReadFile(paths.Collections[name])
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	}
	counter, err := os.ReadFile(paths.Counter)
	require.NoError(t, err)
	assert.Equal(t, "0", string(counter))

	require.NoError(t, g.Save(ctx, Customers, []json.RawMessage{json.RawMessage(`{"id":"a"}`)}))
	_, err = g.NextTicketNumber(ctx)
	require.NoError(t, err)

	require.NoError(t, g.Init(ctx))
	records, err := g.Load(ctx, Customers)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	counter, err = os.ReadFile(paths.Counter)
	require.NoError(t, err)
	assert.Equal(t, "1", string(counter))
}

func TestFileGatewaySaveOverwritesInOrder(t *testing.T) {
	ctx := context.Background()
	g, paths := newTestFileGateway(t)
	require.NoError(t, g.Init(ctx))

	first := []json.RawMessage{
		json.RawMessage(`{"id":"1"}`),
		json.RawMessage(`{"id":"2"}`),
		json.RawMessage(`{"id":"3"}`),
	}
	require.NoError(t, g.Save(ctx, Technicians, first))
	require.NoError(t, g.Save(ctx, Technicians, first[1:]))

	records, err := g.Load(ctx, Technicians)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"id":"2"}`, string(records[0]))
	assert.JSONEq(t, `{"id":"3"}`, string(records[1]))

	data, err := os.ReadFile(paths.Collections[Technicians])
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")
}

func TestFileGatewayCounter(t *testing.T) {
	ctx := context.Background()
	g, paths := newTestFileGateway(t)

	for want := 1; want <= 3; want++ {
		got, err := g.NextTicketNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.NoError(t, os.WriteFile(paths.Counter, []byte(" 41\n"), 0o644))
	got, err := g.NextTicketNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	require.NoError(t, os.WriteFile(paths.Counter, []byte("garbage"), 0o644))
	got, err = g.NextTicketNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestFileGatewayCounterConcurrent(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestFileGateway(t)

	const n = 20
	numbers := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := g.NextTicketNumber(ctx)
			assert.NoError(t, err)
			numbers[i] = got
		}(i)
	}
	wg.Wait()

	sort.Ints(numbers)
	for i, got := range numbers {
		assert.Equal(t, i+1, got)
	}
}

func TestFileGatewayHonoursCancelledContext(t *testing.T) {
	g, paths := newTestFileGateway(t)
	require.NoError(t, g.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Load(ctx, Tickets)
	assert.ErrorIs(t, err, context.Canceled)
	err = g.Save(ctx, Tickets, []json.RawMessage{json.RawMessage(`{"id":"x"}`)})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = g.NextTicketNumber(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(paths.Collections[Tickets])
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	counter, err := os.ReadFile(paths.Counter)
	require.NoError(t, err)
	assert.Equal(t, "0", string(counter))
}

func TestFileGatewayUnknownCollection(t *testing.T) {
	g, _ := newTestFileGateway(t)
	_, err := g.Load(context.Background(), Name("invoices"))
	assert.ErrorIs(t, err, ErrUnknownCollection)
	err = g.Save(context.Background(), Name("invoices"), nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestNewFileGatewayRequiresAllPaths(t *testing.T) {
	paths := testPaths(t.TempDir())
	delete(paths.Collections, Tickets)
	_, err := NewFileGateway(paths, zerolog.Nop())
	assert.Error(t, err)
}
