package entity

import (
	"time"

	"airportfm-service/pkg/apperror"
)

// Common flight status values. FlightStatus is free-form; these are the
// values the upstream systems emit.
const (
	FlightStatusOnTime    = "On-Time"
	FlightStatusDelayed   = "Delayed"
	FlightStatusCancelled = "Cancelled"
	FlightStatusConfirmed = "Confirmed"
)

// Flight is the canonical flight record, owned by the Cassandra store.
// AirlineID, AircraftID and RouteID are plain identifier values referencing
// entities in other stores; nothing validates that the referenced entities
// exist.
type Flight struct {
	FlightNumber           string     `json:"FlightNumber"`
	ScheduledDepartureTime time.Time  `json:"ScheduledDepartureTime"`
	ScheduledArrivalTime   time.Time  `json:"ScheduledArrivalTime"`
	ActualDepartureTime    *time.Time `json:"ActualDepartureTime"`
	ActualArrivalTime      *time.Time `json:"ActualArrivalTime"`
	FlightStatus           string     `json:"FlightStatus"`
	AirlineID              string     `json:"AirlineID"`
	AircraftID             string     `json:"AircraftID"`
	RouteID                string     `json:"RouteID"`
}

// Validate checks the fields required before any store call.
func (f *Flight) Validate() error {
	if f.FlightNumber == "" {
		return apperror.Validationf("FlightNumber is required")
	}
	if f.ScheduledDepartureTime.IsZero() {
		return apperror.Validationf("ScheduledDepartureTime is required")
	}
	if f.ScheduledArrivalTime.IsZero() {
		return apperror.Validationf("ScheduledArrivalTime is required")
	}
	if f.AirlineID == "" {
		return apperror.Validationf("AirlineID is required")
	}
	if f.AircraftID == "" {
		return apperror.Validationf("AircraftID is required")
	}
	if f.RouteID == "" {
		return apperror.Validationf("RouteID is required")
	}
	return nil
}
