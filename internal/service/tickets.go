package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tavern/backend/internal/models"
	"github.com/tavern/backend/internal/storage"
	"github.com/tavern/backend/internal/utils"
)

type TicketSearch string

const (
	SearchByPhone        TicketSearch = "phone"
	SearchByCode         TicketSearch = "code"
	SearchByName         TicketSearch = "name"
	SearchByTicketNumber TicketSearch = "ticket_number"
)

type TicketInput struct {
	CustomerID    string
	TicketType    string
	Priority      string
	Description   string
	EquipmentList []models.Equipment
	ContactName   string
	ContactPhone  string
}

type TicketManager struct {
	Gateway   storage.Gateway
	Tickets   *storage.Collection[models.Ticket]
	Customers *storage.Collection[models.Customer]
	Writes    *sync.Mutex
	Logger    zerolog.Logger
}

// Create validates the submission, then takes the next ticket number and
// stores the ticket. Rejected submissions never consume a number; a number
// taken before a failed save is lost.
func (m *TicketManager) Create(ctx context.Context, in TicketInput, createdBy string) (int, error) {
	defer hold(m.Writes)()

	_, exists, err := m.Customers.Find(ctx, byCustomerID(in.CustomerID))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, invalid("customer_id", "Customer ID not found.")
	}
	priority, err := parsePriority(in.Priority)
	if err != nil {
		return 0, err
	}

	number, err := m.Gateway.NextTicketNumber(ctx)
	if err != nil {
		return 0, err
	}

	ticket := models.Ticket{
		ID:            uuid.NewString(),
		TicketNumber:  number,
		DateCreated:   models.Now(),
		CreatedBy:     createdBy,
		TicketState:   models.StateOpen,
		TicketType:    in.TicketType,
		CustomerID:    in.CustomerID,
		ContactName:   in.ContactName,
		ContactPhone:  utils.DigitsOnly(in.ContactPhone),
		Priority:      priority,
		Description:   in.Description,
		EquipmentList: equipmentOrEmpty(in.EquipmentList),
		NotesList:     []models.TicketNote{},
	}
	if err := m.Tickets.Insert(ctx, ticket); err != nil {
		m.Logger.Warn().Err(err).Int("ticket_number", number).Msg("ticket save failed, number consumed")
		return 0, err
	}
	m.Logger.Info().Str("ticket_id", ticket.ID).Int("ticket_number", number).Str("created_by", createdBy).Msg("ticket created")
	return number, nil
}

// Update overwrites the editable fields of a ticket. The ticket number, state
// and notes are left alone, and the customer id is taken as given.
func (m *TicketManager) Update(ctx context.Context, id string, in TicketInput) error {
	priority, err := parsePriority(in.Priority)
	if err != nil {
		return err
	}

	defer hold(m.Writes)()
	found, err := m.Tickets.Modify(ctx, byTicketID(id), func(t *models.Ticket) error {
		t.CustomerID = in.CustomerID
		t.TicketType = in.TicketType
		t.Priority = priority
		t.Description = in.Description
		t.EquipmentList = equipmentOrEmpty(in.EquipmentList)
		t.ContactName = in.ContactName
		t.ContactPhone = utils.DigitsOnly(in.ContactPhone)
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "Ticket", ID: id}
	}
	m.Logger.Info().Str("ticket_id", id).Msg("ticket updated")
	return nil
}

// Search returns hydrated tickets in storage order. An empty query matches
// nothing.
func (m *TicketManager) Search(ctx context.Context, query string, searchType TicketSearch) ([]models.Ticket, error) {
	switch searchType {
	case SearchByPhone, SearchByCode, SearchByName, SearchByTicketNumber:
	default:
		return nil, invalid("search_type", "unknown ticket search type %q", string(searchType))
	}
	if query == "" {
		return []models.Ticket{}, nil
	}

	switch searchType {
	case SearchByPhone:
		return m.searchByPhone(ctx, query)
	case SearchByCode:
		customer, ok, err := m.Customers.Find(ctx, func(c models.Customer) bool { return c.Code == query })
		if err != nil || !ok {
			return []models.Ticket{}, err
		}
		return m.Tickets.Filter(ctx, func(t models.Ticket) bool { return t.CustomerID == customer.ID })
	case SearchByName:
		customers, err := m.Customers.Filter(ctx, func(c models.Customer) bool { return c.Name == query })
		if err != nil {
			return nil, err
		}
		ids := customerIDs(customers)
		if len(ids) == 0 {
			return []models.Ticket{}, nil
		}
		return m.Tickets.Filter(ctx, func(t models.Ticket) bool { return ids[t.CustomerID] })
	default:
		number, err := strconv.Atoi(strings.TrimSpace(query))
		if err != nil {
			return []models.Ticket{}, nil
		}
		t, ok, err := m.Tickets.Find(ctx, func(t models.Ticket) bool { return t.TicketNumber == number })
		if err != nil || !ok {
			return []models.Ticket{}, err
		}
		return []models.Ticket{t}, nil
	}
}

func (m *TicketManager) searchByPhone(ctx context.Context, query string) ([]models.Ticket, error) {
	digits := utils.DigitsOnly(query)
	if digits == "" {
		return []models.Ticket{}, nil
	}
	customers, err := m.Customers.Filter(ctx, func(c models.Customer) bool {
		return utils.DigitsOnly(c.Phone) == digits
	})
	if err != nil {
		return nil, err
	}
	ids := customerIDs(customers)
	return m.Tickets.Filter(ctx, func(t models.Ticket) bool {
		return utils.DigitsOnly(t.ContactPhone) == digits || ids[t.CustomerID]
	})
}

func (m *TicketManager) FindByID(ctx context.Context, id string) (models.Ticket, bool, error) {
	return m.Tickets.Find(ctx, byTicketID(id))
}

// AddTimeEntry appends a work note to a ticket. Empty hours or mileage count
// as zero.
func (m *TicketManager) AddTimeEntry(ctx context.Context, ticketID, technician, notes, hoursText, mileageText string) (models.TicketNote, error) {
	if strings.TrimSpace(notes) == "" {
		return models.TicketNote{}, invalid("notes", "Please enter notes before saving.")
	}
	hours, err := parseHours(hoursText)
	if err != nil {
		return models.TicketNote{}, err
	}
	mileage, err := parseMileage(mileageText)
	if err != nil {
		return models.TicketNote{}, err
	}

	note := models.TicketNote{
		ID:          uuid.NewString(),
		Technician:  technician,
		DateCreated: models.Now(),
		Notes:       notes,
		TicketTime:  hours,
		Mileage:     mileage,
	}
	defer hold(m.Writes)()
	found, err := m.Tickets.Modify(ctx, byTicketID(ticketID), func(t *models.Ticket) error {
		t.NotesList = append(t.NotesList, note)
		return nil
	})
	if err != nil {
		return models.TicketNote{}, err
	}
	if !found {
		return models.TicketNote{}, &NotFoundError{Entity: "Ticket", ID: ticketID}
	}
	m.Logger.Info().Str("ticket_id", ticketID).Str("note_id", note.ID).Float64("hours", hours).Int("mileage", mileage).Msg("time entry added")
	return note, nil
}

func (m *TicketManager) GetNotes(ctx context.Context, ticketID string) ([]models.TicketNote, error) {
	t, ok, err := m.Tickets.Find(ctx, byTicketID(ticketID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "Ticket", ID: ticketID}
	}
	return t.NotesList, nil
}

func parsePriority(text string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, malformed("priority", text, err)
	}
	return p, nil
}

func parseHours(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	hours, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, malformed("hours", text, err)
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, invalid("hours", "hours must be a non-negative number, got %q", text)
	}
	return hours, nil
}

func parseMileage(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	mileage, err := strconv.Atoi(text)
	if err != nil {
		return 0, malformed("mileage", text, err)
	}
	if mileage < 0 {
		return 0, invalid("mileage", "mileage must not be negative, got %d", mileage)
	}
	return mileage, nil
}

func byTicketID(id string) func(models.Ticket) bool {
	return func(t models.Ticket) bool { return t.ID == id }
}

func customerIDs(customers []models.Customer) map[string]bool {
	ids := make(map[string]bool, len(customers))
	for _, c := range customers {
		ids[c.ID] = true
	}
	return ids
}

func equipmentOrEmpty(list []models.Equipment) []models.Equipment {
	if list == nil {
		return []models.Equipment{}
	}
	return list
}
