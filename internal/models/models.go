package models

import (
	"fmt"
	"time"
)

type TicketState string

const (
	StateOpen               TicketState = "open"
	StateInProgress         TicketState = "in progress"
	StateWaitingForParts    TicketState = "waiting for parts"
	StateWaitingForCustomer TicketState = "waiting for customer"
	StateClosed             TicketState = "closed"
)

func States() []TicketState {
	return []TicketState{StateOpen, StateInProgress, StateWaitingForParts, StateWaitingForCustomer, StateClosed}
}

func (s TicketState) Valid() bool {
	for _, known := range States() {
		if s == known {
			return true
		}
	}
	return false
}

type Customer struct {
	ID         string `json:"id" validate:"required"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	IsBusiness bool   `json:"is_business"`
}

type Technician struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type Equipment struct {
	EqType       string `json:"eq_type"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Notes        string `json:"notes"`
}

type TicketNote struct {
	ID          string    `json:"id" validate:"required"`
	Technician  string    `json:"technician"`
	DateCreated Timestamp `json:"date_created"`
	Notes       string    `json:"notes"`
	TicketTime  float64   `json:"ticket_time" validate:"gte=0"`
	Mileage     int       `json:"mileage" validate:"gte=0"`
}

type Ticket struct {
	ID            string       `json:"id" validate:"required"`
	TicketNumber  int          `json:"ticket_number" validate:"gte=0"`
	DateCreated   Timestamp    `json:"date_created"`
	CreatedBy     string       `json:"created_by"`
	TicketState   TicketState  `json:"ticket_state" validate:"ticket_state"`
	DateStarted   *Timestamp   `json:"date_started"`
	DateCompleted *Timestamp   `json:"date_completed"`
	TicketType    string       `json:"ticket_type"`
	CustomerID    string       `json:"customer_id"`
	ContactName   string       `json:"contact_name"`
	ContactPhone  string       `json:"contact_phone"`
	Priority      int          `json:"priority"`
	Description   string       `json:"description"`
	EquipmentList []Equipment  `json:"equipment_list"`
	NotesList     []TicketNote `json:"notes_list" validate:"dive"`
}

// naiveLayout is what Python's datetime.isoformat() emits for local times.
const naiveLayout = "2006-01-02T15:04:05.999999"

// Timestamp is a time.Time that encodes as ISO-8601 text.
type Timestamp struct {
	time.Time
}

func Now() Timestamp {
	return Timestamp{Time: time.Now()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Format(time.RFC3339Nano) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", s)
	}
	s = s[1 : len(s)-1]
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}
