package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tavern/backend/internal/service"
)

type TechnicianRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
	IsActive *bool  `json:"is_active"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}

// @Summary List technicians
// @Tags technicians
// @Produce json
// @Success 200 {array} models.Technician
// @Router /api/technicians [get]
func (h *Handler) TechniciansList(c *gin.Context) {
	techs, err := h.System.Technicians.ListAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, techs)
}

// @Summary Technician details
// @Tags technicians
// @Produce json
// @Param id path string true "technician id"
// @Success 200 {object} models.Technician
// @Failure 404 {object} map[string]any
// @Router /api/technicians/{id} [get]
func (h *Handler) TechnicianDetails(c *gin.Context) {
	id := c.Param("id")
	tech, ok, err := h.System.Technicians.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		notFound(c, "Technician", id)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// @Summary Create technician
// @Tags technicians
// @Accept json
// @Produce json
// @Param body body TechnicianRequest true "technician"
// @Success 201 {object} models.Technician
// @Failure 400 {object} map[string]any
// @Router /api/technicians [post]
func (h *Handler) TechnicianCreate(c *gin.Context) {
	var req TechnicianRequest
	if !h.bind(c, &req) {
		return
	}
	tech, err := h.System.Technicians.Create(c.Request.Context(), req.Name, req.Username, req.Email)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tech)
}

// @Summary Update technician
// @Tags technicians
// @Accept json
// @Produce json
// @Param id path string true "technician id"
// @Param body body TechnicianRequest true "technician"
// @Success 200 {object} models.Technician
// @Failure 404 {object} map[string]any
// @Router /api/technicians/{id} [put]
func (h *Handler) TechnicianUpdate(c *gin.Context) {
	var req TechnicianRequest
	if !h.bind(c, &req) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	err := h.System.Technicians.Update(ctx, id, service.TechnicianInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		IsActive: active,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	tech, _, err := h.System.Technicians.FindByID(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// @Summary Technician login
// @Description Looks the technician up by username; no credentials are checked.
// @Tags technicians
// @Accept json
// @Produce json
// @Param body body LoginRequest true "login"
// @Success 200 {object} models.Technician
// @Failure 404 {object} map[string]any
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	tech, ok, err := h.System.Technicians.Login(c.Request.Context(), req.Username)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !ok {
		notFound(c, "Technician", req.Username)
		return
	}
	c.JSON(http.StatusOK, tech)
}
