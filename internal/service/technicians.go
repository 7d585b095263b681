package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tavern/backend/internal/models"
	"github.com/tavern/backend/internal/storage"
)

type TechnicianInput struct {
	Name     string
	Username string
	Email    string
	IsActive bool
}

type TechnicianManager struct {
	Technicians *storage.Collection[models.Technician]
	Writes      *sync.Mutex
	Logger      zerolog.Logger
}

// Create rejects a technician whose username or email is already taken.
// Records are checked in storage order and the first collision is reported.
func (m *TechnicianManager) Create(ctx context.Context, name, username, email string) (models.Technician, error) {
	defer hold(m.Writes)()

	existing, err := m.Technicians.List(ctx)
	if err != nil {
		return models.Technician{}, err
	}
	for _, t := range existing {
		if t.Username == username {
			if t.Email == email {
				return models.Technician{}, invalid("username", "A technician with username %s and email %s already exists", username, email)
			}
			return models.Technician{}, invalid("username", "A technician with username %s already exists", username)
		}
		if t.Email == email {
			return models.Technician{}, invalid("email", "A technician with email %s already exists", email)
		}
	}

	tech := models.Technician{
		ID:       uuid.NewString(),
		Name:     name,
		Username: username,
		Email:    email,
		IsActive: true,
	}
	if err := m.Technicians.ReplaceAll(ctx, append(existing, tech)); err != nil {
		return models.Technician{}, err
	}
	m.Logger.Info().Str("technician_id", tech.ID).Str("username", username).Msg("technician created")
	return tech, nil
}

// Update overwrites every field, is_active included. Username and email
// uniqueness is only enforced on Create.
func (m *TechnicianManager) Update(ctx context.Context, id string, in TechnicianInput) error {
	defer hold(m.Writes)()

	found, err := m.Technicians.Modify(ctx, byTechnicianID(id), func(t *models.Technician) error {
		t.Name = in.Name
		t.Username = in.Username
		t.Email = in.Email
		t.IsActive = in.IsActive
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "Technician", ID: id}
	}
	m.Logger.Info().Str("technician_id", id).Bool("is_active", in.IsActive).Msg("technician updated")
	return nil
}

// Login only looks the technician up; there is no credential check.
func (m *TechnicianManager) Login(ctx context.Context, username string) (models.Technician, bool, error) {
	return m.Technicians.Find(ctx, byUsername(username))
}

func (m *TechnicianManager) ListAll(ctx context.Context) ([]models.Technician, error) {
	return m.Technicians.List(ctx)
}

func (m *TechnicianManager) FindByID(ctx context.Context, id string) (models.Technician, bool, error) {
	return m.Technicians.Find(ctx, byTechnicianID(id))
}

func (m *TechnicianManager) GetIDByUsername(ctx context.Context, username string) (string, bool, error) {
	t, ok, err := m.Technicians.Find(ctx, byUsername(username))
	return t.ID, ok, err
}

func byTechnicianID(id string) func(models.Technician) bool {
	return func(t models.Technician) bool { return t.ID == id }
}

func byUsername(username string) func(models.Technician) bool {
	return func(t models.Technician) bool { return t.Username == username }
}
