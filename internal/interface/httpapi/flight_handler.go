package httpapi

import (
	"net/http"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/usecase"
	"airportfm-service/pkg/apperror"
	"airportfm-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// FlightHandler exposes the flight lifecycle over HTTP. All cross-store
// sequencing happens in the coordinator; this layer only maps payloads and
// outcomes.
type FlightHandler struct {
	coordinator *usecase.FlightCoordinator
	logger      logger.Logger
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(coordinator *usecase.FlightCoordinator, logger logger.Logger) *FlightHandler {
	return &FlightHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// CreateFlight handles POST /flights
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	var flight entity.Flight
	if err := c.ShouldBindJSON(&flight); err != nil {
		respondError(c, apperror.Validationf("invalid flight payload: %v", err))
		return
	}

	outcome := h.coordinator.CreateFlight(c.Request.Context(), &flight)
	respondOutcome(c, http.StatusCreated, outcome, gin.H{"flight": outcome.Flight})
}

// GetFlight handles GET /flights/:flight_number
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flightNumber := c.Param("flight_number")

	flight, err := h.coordinator.GetFlight(c.Request.Context(), flightNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

// UpdateFlight handles PUT /flights/:flight_number
func (h *FlightHandler) UpdateFlight(c *gin.Context) {
	flightNumber := c.Param("flight_number")

	var flight entity.Flight
	if err := c.ShouldBindJSON(&flight); err != nil {
		respondError(c, apperror.Validationf("invalid flight payload: %v", err))
		return
	}

	outcome := h.coordinator.UpdateFlight(c.Request.Context(), flightNumber, &flight)
	respondOutcome(c, http.StatusOK, outcome, gin.H{"flight": outcome.Flight})
}

// DeleteFlight handles DELETE /flights/:flight_number
func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	flightNumber := c.Param("flight_number")

	outcome := h.coordinator.DeleteFlight(c.Request.Context(), flightNumber)
	respondOutcome(c, http.StatusOK, outcome, gin.H{"detail": "flight deleted"})
}

// FlightsForPassenger handles GET /passengers/:passenger_id/flights.
// Flight attributes in the response are the graph snapshot, not a live
// read of the primary store.
func (h *FlightHandler) FlightsForPassenger(c *gin.Context) {
	passengerID := c.Param("passenger_id")

	flights, err := h.coordinator.FlightsForPassenger(c.Request.Context(), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if flights == nil {
		flights = []*entity.Flight{}
	}
	c.JSON(http.StatusOK, flights)
}

// AverageTickets handles GET /stats/average-tickets
func (h *FlightHandler) AverageTickets(c *gin.Context) {
	average, err := h.coordinator.AverageTicketsPerFlight(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": average})
}
