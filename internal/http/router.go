package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tavern/backend/internal/config"
	"github.com/tavern/backend/internal/http/handlers"
	"github.com/tavern/backend/internal/http/middleware"
	"github.com/tavern/backend/internal/service"
	"github.com/tavern/backend/internal/storage"

	_ "github.com/tavern/backend/docs"
)

func Router(cfg config.Config, gateway storage.Gateway, system *service.System, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		System:    system,
		Gateway:   gateway,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/customers", h.CustomerCreate)
		api.GET("/customers", h.CustomersSearch)
		api.GET("/customer-codes/:code", h.CustomerByCode)
		api.GET("/customers/:id", h.CustomerDetails)
		api.PUT("/customers/:id", h.CustomerUpdate)
		api.GET("/customers/:id/tickets", h.CustomerTickets)

		api.POST("/tickets", h.TicketCreate)
		api.GET("/tickets", h.TicketsSearch)
		api.GET("/tickets/:id", h.TicketDetails)
		api.PUT("/tickets/:id", h.TicketUpdate)
		api.GET("/tickets/:id/notes", h.TicketNotes)
		api.POST("/tickets/:id/notes", h.TicketAddTimeEntry)

		api.POST("/login", h.Login)
		api.GET("/technicians", h.TechniciansList)
		api.GET("/technicians/:id", h.TechnicianDetails)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/technicians", h.TechnicianCreate)
		admin.PUT("/technicians/:id", h.TechnicianUpdate)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
