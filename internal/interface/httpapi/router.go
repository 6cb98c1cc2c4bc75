package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all routes onto a gin engine.
func NewRouter(flights *FlightHandler, passengers *PassengerHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/flights", flights.CreateFlight)
	router.GET("/flights/:flight_number", flights.GetFlight)
	router.PUT("/flights/:flight_number", flights.UpdateFlight)
	router.DELETE("/flights/:flight_number", flights.DeleteFlight)

	router.POST("/passengers", passengers.CreatePassenger)
	router.GET("/passengers", passengers.ListPassengers)
	router.GET("/passengers/:passenger_id", passengers.GetPassenger)
	router.PUT("/passengers/:passenger_id", passengers.UpdatePassenger)
	router.DELETE("/passengers/:passenger_id", passengers.DeletePassenger)
	router.GET("/passengers/:passenger_id/flights", flights.FlightsForPassenger)

	router.GET("/stats/average-tickets", flights.AverageTickets)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
