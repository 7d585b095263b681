package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tavern/backend/internal/models"
	"github.com/tavern/backend/internal/storage"
)

// System bundles the three managers over one gateway. The managers share one
// write lock: every change is a load, check and rewrite of whole collections,
// and some checks span collections.
type System struct {
	Customers   *CustomerManager
	Tickets     *TicketManager
	Technicians *TechnicianManager
}

func NewSystem(gateway storage.Gateway, logger zerolog.Logger) *System {
	customers := storage.NewCollection(gateway, storage.Customers, models.DecodeCustomer)
	technicians := storage.NewCollection(gateway, storage.Technicians, models.DecodeTechnician)
	tickets := storage.NewCollection(gateway, storage.Tickets, models.HydrateTicket)
	writes := &sync.Mutex{}

	return &System{
		Customers: &CustomerManager{
			Customers: customers,
			Tickets:   tickets,
			Writes:    writes,
			Logger:    logger.With().Str("manager", "customers").Logger(),
		},
		Tickets: &TicketManager{
			Gateway:   gateway,
			Tickets:   tickets,
			Customers: customers,
			Writes:    writes,
			Logger:    logger.With().Str("manager", "tickets").Logger(),
		},
		Technicians: &TechnicianManager{
			Technicians: technicians,
			Writes:      writes,
			Logger:      logger.With().Str("manager", "technicians").Logger(),
		},
	}
}

// hold locks mu, if set, and returns the matching unlock.
func hold(mu *sync.Mutex) func() {
	if mu == nil {
		return func() {}
	}
	mu.Lock()
	return mu.Unlock
}
