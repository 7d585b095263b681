package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tavern/backend/internal/models"
	"github.com/tavern/backend/internal/service"
)

type TicketRequest struct {
	CustomerID    string             `json:"customer_id" validate:"required"`
	TicketType    string             `json:"ticket_type"`
	Priority      int                `json:"priority" validate:"min=1,max=5"`
	Description   string             `json:"description"`
	EquipmentList []models.Equipment `json:"equipment_list"`
	CreatedBy     string             `json:"created_by"`
	ContactName   string             `json:"contact_name"`
	ContactPhone  string             `json:"contact_phone"`
}

func (r TicketRequest) input() service.TicketInput {
	return service.TicketInput{
		CustomerID:    r.CustomerID,
		TicketType:    r.TicketType,
		Priority:      strconv.Itoa(r.Priority),
		Description:   r.Description,
		EquipmentList: r.EquipmentList,
		ContactName:   r.ContactName,
		ContactPhone:  r.ContactPhone,
	}
}

type TimeEntryRequest struct {
	Username string `json:"username" validate:"required"`
	Notes    string `json:"notes" validate:"required"`
	Hours    string `json:"hours"`
	Mileage  string `json:"mileage"`
}

// TicketView is a ticket annotated with its customer's code.
type TicketView struct {
	models.Ticket
	CustomerCode string `json:"customer_code"`
}

// @Summary Create ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body TicketRequest true "ticket"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/tickets [post]
func (h *Handler) TicketCreate(c *gin.Context) {
	var req TicketRequest
	if !h.bind(c, &req) {
		return
	}
	number, err := h.System.Tickets.Create(c.Request.Context(), req.input(), req.CreatedBy)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket_number": number})
}

// @Summary Update ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "ticket id"
// @Param body body TicketRequest true "ticket"
// @Success 200 {object} TicketView
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{id} [put]
func (h *Handler) TicketUpdate(c *gin.Context) {
	var req TicketRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.System.Tickets.Update(ctx, id, req.input()); err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.respondTicket(c, id)
}

// @Summary Search tickets
// @Tags tickets
// @Produce json
// @Param q query string false "query"
// @Param type query string true "phone, code, name or ticket_number"
// @Success 200 {array} TicketView
// @Router /api/tickets [get]
func (h *Handler) TicketsSearch(c *gin.Context) {
	ctx := c.Request.Context()
	tickets, err := h.System.Tickets.Search(ctx, c.Query("q"), service.TicketSearch(c.DefaultQuery("type", "ticket_number")))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	views, err := h.ticketViews(ctx, tickets)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Ticket details
// @Tags tickets
// @Produce json
// @Param id path string true "ticket id"
// @Success 200 {object} TicketView
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{id} [get]
func (h *Handler) TicketDetails(c *gin.Context) {
	h.respondTicket(c, c.Param("id"))
}

// @Summary Ticket notes
// @Tags tickets
// @Produce json
// @Param id path string true "ticket id"
// @Success 200 {array} models.TicketNote
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{id}/notes [get]
func (h *Handler) TicketNotes(c *gin.Context) {
	notes, err := h.System.Tickets.GetNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// @Summary Add time entry
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "ticket id"
// @Param body body TimeEntryRequest true "time entry"
// @Success 201 {object} models.TicketNote
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{id}/notes [post]
func (h *Handler) TicketAddTimeEntry(c *gin.Context) {
	var req TimeEntryRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	techID, ok, err := h.System.Technicians.GetIDByUsername(ctx, req.Username)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown technician", gin.H{"username": req.Username})
		return
	}
	note, err := h.System.Tickets.AddTimeEntry(ctx, c.Param("id"), techID, req.Notes, req.Hours, req.Mileage)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) respondTicket(c *gin.Context, id string) {
	ctx := c.Request.Context()
	ticket, ok, err := h.System.Tickets.FindByID(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		notFound(c, "Ticket", id)
		return
	}
	code, _, err := h.System.Customers.GetCodeByID(ctx, ticket.CustomerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, TicketView{Ticket: ticket, CustomerCode: code})
}

func (h *Handler) ticketViews(ctx context.Context, tickets []models.Ticket) ([]TicketView, error) {
	views := make([]TicketView, 0, len(tickets))
	if len(tickets) == 0 {
		return views, nil
	}
	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.CustomerID)
	}
	codes, err := h.System.Customers.CodesByID(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		views = append(views, TicketView{Ticket: t, CustomerCode: codes[t.CustomerID]})
	}
	return views, nil
}
