package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTechnicianUniqueness(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)

	a, err := sys.Technicians.Create(ctx, "A", "bob", "b@x.com")
	require.NoError(t, err)
	assert.True(t, a.IsActive)

	_, err = sys.Technicians.Create(ctx, "B", "bob", "other@x.com")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "A technician with username bob already exists", err.Error())

	_, err = sys.Technicians.Create(ctx, "C", "carl", "b@x.com")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "A technician with email b@x.com already exists", err.Error())

	_, err = sys.Technicians.Create(ctx, "B2", "bob", "b@x.com")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "username bob and email b@x.com")

	_, err = sys.Technicians.Create(ctx, "D", "dave", "d@x.com")
	require.NoError(t, err)

	all, err := sys.Technicians.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bob", all[0].Username)
	assert.Equal(t, "dave", all[1].Username)
}

func TestCreateTechnicianFirstCollisionWins(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)

	_, err := sys.Technicians.Create(ctx, "A", "amy", "shared@x.com")
	require.NoError(t, err)
	_, err = sys.Technicians.Create(ctx, "B", "ben", "ben@x.com")
	require.NoError(t, err)

	_, err = sys.Technicians.Create(ctx, "C", "ben", "shared@x.com")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "A technician with email shared@x.com already exists", err.Error())
}

func TestUpdateTechnician(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)

	bob, err := sys.Technicians.Create(ctx, "Bob", "bob", "b@x.com")
	require.NoError(t, err)
	_, err = sys.Technicians.Create(ctx, "Dave", "dave", "d@x.com")
	require.NoError(t, err)

	// uniqueness is not re-checked on update
	err = sys.Technicians.Update(ctx, bob.ID, TechnicianInput{Name: "Bobby", Username: "dave", Email: "d@x.com", IsActive: false})
	require.NoError(t, err)

	got, ok, err := sys.Technicians.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bobby", got.Name)
	assert.Equal(t, "dave", got.Username)
	assert.False(t, got.IsActive)

	err = sys.Technicians.Update(ctx, "missing", TechnicianInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginAndLookup(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)

	bob, err := sys.Technicians.Create(ctx, "Bob", "bob", "b@x.com")
	require.NoError(t, err)

	got, ok, err := sys.Technicians.Login(ctx, "bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bob, got)

	_, ok, err = sys.Technicians.Login(ctx, "Bob")
	require.NoError(t, err)
	assert.False(t, ok)

	id, ok, err := sys.Technicians.GetIDByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bob.ID, id)

	_, ok, err = sys.Technicians.FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}
