package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tavern/backend/internal/models"
	"github.com/tavern/backend/internal/storage"
	"github.com/tavern/backend/internal/utils"
)

type CustomerField string

const (
	CustomerCode  CustomerField = "code"
	CustomerName  CustomerField = "name"
	CustomerPhone CustomerField = "phone"
	CustomerEmail CustomerField = "email"
)

type CustomerInput struct {
	Code       string
	Name       string
	Phone      string
	Email      string
	Address    string
	IsBusiness bool
}

type CustomerManager struct {
	Customers *storage.Collection[models.Customer]
	Tickets   *storage.Collection[models.Ticket]
	Writes    *sync.Mutex
	Logger    zerolog.Logger
}

func (m *CustomerManager) Create(ctx context.Context, in CustomerInput) (models.Customer, error) {
	defer hold(m.Writes)()

	if err := m.checkUniqueCode(ctx, in.Code, ""); err != nil {
		return models.Customer{}, err
	}

	customer := models.Customer{
		ID:         uuid.NewString(),
		Code:       in.Code,
		Name:       in.Name,
		Phone:      utils.DigitsOnly(in.Phone),
		Email:      in.Email,
		Address:    in.Address,
		IsBusiness: in.IsBusiness,
	}
	if err := m.Customers.Insert(ctx, customer); err != nil {
		return models.Customer{}, err
	}
	m.Logger.Info().Str("customer_id", customer.ID).Str("code", customer.Code).Msg("customer created")
	return customer, nil
}

// Update overwrites every field of the customer with the given id.
func (m *CustomerManager) Update(ctx context.Context, id string, in CustomerInput) error {
	if in.Code == "" || in.Name == "" || in.Phone == "" {
		return invalid("code", "Customer Code, Name, and Phone are required.")
	}
	defer hold(m.Writes)()

	found, err := m.Customers.Modify(ctx, byCustomerID(id), func(c *models.Customer) error {
		if err := m.checkUniqueCode(ctx, in.Code, id); err != nil {
			return err
		}
		c.Code = in.Code
		c.Name = in.Name
		c.Phone = utils.DigitsOnly(in.Phone)
		c.Email = in.Email
		c.Address = in.Address
		c.IsBusiness = in.IsBusiness
		return nil
	})
	if err != nil {
		m.Logger.Debug().Err(err).Str("customer_id", id).Msg("customer update rejected")
		return err
	}
	if !found {
		return &NotFoundError{Entity: "Customer", ID: id}
	}
	m.Logger.Info().Str("customer_id", id).Str("code", in.Code).Msg("customer updated")
	return nil
}

func (m *CustomerManager) checkUniqueCode(ctx context.Context, code, selfID string) error {
	_, taken, err := m.Customers.Find(ctx, func(c models.Customer) bool {
		return c.Code == code && c.ID != selfID
	})
	if err != nil {
		return err
	}
	if taken {
		return invalid("code", "Customer code %s already exists.", code)
	}
	return nil
}

// Search matches phone numbers exactly after stripping symbols, and every
// other field as a case-insensitive substring.
func (m *CustomerManager) Search(ctx context.Context, query string, field CustomerField) ([]models.Customer, error) {
	var match func(models.Customer) bool
	switch field {
	case CustomerPhone:
		digits := utils.DigitsOnly(query)
		match = func(c models.Customer) bool { return utils.DigitsOnly(c.Phone) == digits }
	case CustomerCode:
		match = func(c models.Customer) bool { return containsFold(c.Code, query) }
	case CustomerName:
		match = func(c models.Customer) bool { return containsFold(c.Name, query) }
	case CustomerEmail:
		match = func(c models.Customer) bool { return containsFold(c.Email, query) }
	default:
		return nil, invalid("field", "unknown customer search field %q", string(field))
	}
	return m.Customers.Filter(ctx, match)
}

func (m *CustomerManager) FindByID(ctx context.Context, id string) (models.Customer, bool, error) {
	return m.Customers.Find(ctx, byCustomerID(id))
}

func (m *CustomerManager) GetIDByCode(ctx context.Context, code string) (string, bool, error) {
	c, ok, err := m.Customers.Find(ctx, func(c models.Customer) bool { return c.Code == code })
	return c.ID, ok, err
}

func (m *CustomerManager) GetCodeByID(ctx context.Context, id string) (string, bool, error) {
	c, ok, err := m.Customers.Find(ctx, byCustomerID(id))
	return c.Code, ok, err
}

// CodesByID maps each of ids to its customer code. Unknown ids are left out.
func (m *CustomerManager) CodesByID(ctx context.Context, ids ...string) (map[string]string, error) {
	codes := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return codes, nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	customers, err := m.Customers.Filter(ctx, func(c models.Customer) bool { return wanted[c.ID] })
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		codes[c.ID] = c.Code
	}
	return codes, nil
}

// ListTickets returns the customer's tickets in storage order.
func (m *CustomerManager) ListTickets(ctx context.Context, customerID string) ([]models.Ticket, error) {
	return m.Tickets.Filter(ctx, func(t models.Ticket) bool { return t.CustomerID == customerID })
}

func byCustomerID(id string) func(models.Customer) bool {
	return func(c models.Customer) bool { return c.ID == id }
}

func containsFold(value, query string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}
