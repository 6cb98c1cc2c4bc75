package httpapi

import (
	"net/http"
	"strconv"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/usecase"
	"airportfm-service/pkg/apperror"
	"airportfm-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PassengerHandler exposes the passenger lifecycle over HTTP.
type PassengerHandler struct {
	service *usecase.PassengerService
	logger  logger.Logger
}

// NewPassengerHandler creates a new passenger handler
func NewPassengerHandler(service *usecase.PassengerService, logger logger.Logger) *PassengerHandler {
	return &PassengerHandler{
		service: service,
		logger:  logger,
	}
}

// CreatePassenger handles POST /passengers
func (h *PassengerHandler) CreatePassenger(c *gin.Context) {
	var passenger entity.Passenger
	if err := c.ShouldBindJSON(&passenger); err != nil {
		respondError(c, apperror.Validationf("invalid passenger payload: %v", err))
		return
	}

	if err := h.service.CreatePassenger(c.Request.Context(), &passenger); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, passenger)
}

// GetPassenger handles GET /passengers/:passenger_id
func (h *PassengerHandler) GetPassenger(c *gin.Context) {
	passengerID := c.Param("passenger_id")

	passenger, err := h.service.GetPassenger(c.Request.Context(), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passenger)
}

// UpdatePassenger handles PUT /passengers/:passenger_id. The payload is
// partial: fields left out of the body keep their stored values.
func (h *PassengerHandler) UpdatePassenger(c *gin.Context) {
	passengerID := c.Param("passenger_id")

	var update entity.PassengerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, apperror.Validationf("invalid passenger payload: %v", err))
		return
	}

	updated, err := h.service.UpdatePassenger(c.Request.Context(), passengerID, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePassenger handles DELETE /passengers/:passenger_id
func (h *PassengerHandler) DeletePassenger(c *gin.Context) {
	passengerID := c.Param("passenger_id")

	if err := h.service.DeletePassenger(c.Request.Context(), passengerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "passenger deleted"})
}

// ListPassengers handles GET /passengers?min_tickets=N
func (h *PassengerHandler) ListPassengers(c *gin.Context) {
	minTickets := 0
	if raw := c.Query("min_tickets"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperror.Validationf("min_tickets must be an integer"))
			return
		}
		minTickets = parsed
	}

	passengers, err := h.service.ListByMinTicketCount(c.Request.Context(), minTickets)
	if err != nil {
		respondError(c, err)
		return
	}
	if passengers == nil {
		passengers = []*entity.Passenger{}
	}
	c.JSON(http.StatusOK, passengers)
}
