package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tavern/backend/internal/service"
)

type CustomerRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	IsBusiness bool   `json:"is_business"`
}

func (r CustomerRequest) input() service.CustomerInput {
	return service.CustomerInput{
		Code:       r.Code,
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		Address:    r.Address,
		IsBusiness: r.IsBusiness,
	}
}

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param body body CustomerRequest true "customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} map[string]any
// @Router /api/customers [post]
func (h *Handler) CustomerCreate(c *gin.Context) {
	var req CustomerRequest
	if !h.bind(c, &req) {
		return
	}
	customer, err := h.System.Customers.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "customer id"
// @Param body body CustomerRequest true "customer"
// @Success 200 {object} models.Customer
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/customers/{id} [put]
func (h *Handler) CustomerUpdate(c *gin.Context) {
	var req CustomerRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.System.Customers.Update(ctx, id, req.input()); err != nil {
		h.writeServiceError(c, err)
		return
	}
	customer, _, err := h.System.Customers.FindByID(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// @Summary Search customers
// @Tags customers
// @Produce json
// @Param q query string false "query"
// @Param field query string true "code, name, phone or email"
// @Success 200 {array} models.Customer
// @Router /api/customers [get]
func (h *Handler) CustomersSearch(c *gin.Context) {
	customers, err := h.System.Customers.Search(c.Request.Context(), c.Query("q"), service.CustomerField(c.DefaultQuery("field", "name")))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// @Summary Customer details
// @Tags customers
// @Produce json
// @Param id path string true "customer id"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]any
// @Router /api/customers/{id} [get]
func (h *Handler) CustomerDetails(c *gin.Context) {
	id := c.Param("id")
	customer, ok, err := h.System.Customers.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		notFound(c, "Customer", id)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// @Summary Resolve customer code
// @Tags customers
// @Produce json
// @Param code path string true "customer code"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/customer-codes/{code} [get]
func (h *Handler) CustomerByCode(c *gin.Context) {
	code := c.Param("code")
	id, ok, err := h.System.Customers.GetIDByCode(c.Request.Context(), code)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		notFound(c, "Customer", code)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "code": code})
}

// @Summary Customer tickets
// @Tags customers
// @Produce json
// @Param id path string true "customer id"
// @Success 200 {array} TicketView
// @Router /api/customers/{id}/tickets [get]
func (h *Handler) CustomerTickets(c *gin.Context) {
	ctx := c.Request.Context()
	tickets, err := h.System.Customers.ListTickets(ctx, c.Param("id"))
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
