package repository

import (
	"context"

	"airportfm-service/internal/domain/entity"
)

// FlightGraphRepository is the contract for the derived relationship store
// (graph). The graph is never canonical: edges must eventually reflect the
// FK values on the flight record but may be transiently stale or missing.
// Node creation does not validate existence in the primary stores.
type FlightGraphRepository interface {
	// UpsertFlightEdges creates the Flight, Airline, Aircraft and Route
	// nodes if absent and merges the three outgoing edges. Idempotent:
	// re-running with the same arguments is a no-op. The flight node
	// carries a property snapshot of the record at call time.
	UpsertFlightEdges(ctx context.Context, flight *entity.Flight) error
	// ReplaceFlightEdges merges edges to the new FK targets, then removes
	// edges to targets the record no longer references. The two phases are
	// not atomic: a failure after the merge leaves dual edges of the same
	// type. Callers surface that as a degraded result.
	ReplaceFlightEdges(ctx context.Context, flight *entity.Flight) error
	// DeleteFlightCascade removes the flight node and all incident edges.
	// Absence of the node is not an error.
	DeleteFlightCascade(ctx context.Context, flightNumber string) error
	// FlightsForPassenger traverses REGISTERED_ON edges. Returned flight
	// attributes are the node property snapshot, not a live join against
	// the primary store.
	FlightsForPassenger(ctx context.Context, passengerID string) ([]*entity.Flight, error)
}
