package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tavern/backend/internal/storage"
)

var errDiskFull = errors.New("disk full")

// flakyGateway fails saves of one collection on demand.
type flakyGateway struct {
	storage.Gateway
	failSave storage.Name
}

func (g *flakyGateway) Save(ctx context.Context, name storage.Name, records []json.RawMessage) error {
	if name == g.failSave {
		return errDiskFull
	}
	return g.Gateway.Save(ctx, name, records)
}

func newTestGateway(t *testing.T) *storage.FileGateway {
	t.Helper()
	dir := t.TempDir()
	g, err := storage.NewFileGateway(storage.FilePaths{
		Dir: dir,
		Collections: map[storage.Name]string{
			storage.Customers:   filepath.Join(dir, "customers.json"),
			storage.Technicians: filepath.Join(dir, "technicians.json"),
			storage.Tickets:     filepath.Join(dir, "tickets.json"),
		},
		Counter: filepath.Join(dir, "ticket_counter.txt"),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, g.Init(context.Background()))
	return g
}

func newTestSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(newTestGateway(t), zerolog.Nop())
}
