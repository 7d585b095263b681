package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ticket_state", func(fl validator.FieldLevel) bool {
		return TicketState(fl.Field().String()).Valid()
	})
	return v
}

// Decode strictly decodes one stored record into T and checks it against
// the struct's validate tags. Unknown keys are rejected.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("invalid %T record: %w", out, err)
	}
	return out, nil
}

func DecodeCustomer(raw json.RawMessage) (Customer, error) {
	return Decode[Customer](raw)
}

func DecodeTechnician(raw json.RawMessage) (Technician, error) {
	return Decode[Technician](raw)
}

// HydrateTicket rebuilds a ticket together with its equipment and note lists.
// Absent lists come back empty, never nil.
func HydrateTicket(raw json.RawMessage) (Ticket, error) {
	t, err := Decode[Ticket](raw)
	if err != nil {
		return Ticket{}, err
	}
	if t.EquipmentList == nil {
		t.EquipmentList = []Equipment{}
	}
	if t.NotesList == nil {
		t.NotesList = []TicketNote{}
	}
	return t, nil
}
