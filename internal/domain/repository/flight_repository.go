package repository

import (
	"context"

	"airportfm-service/internal/domain/entity"
)

// FlightRepository is the contract for the canonical flight store
// (wide-column). The store provides no cross-record transactions; every
// operation is a single-key conditional write. The conditional write is the
// authoritative uniqueness gate under concurrent callers; any pre-check
// read in front of it is only a latency optimization.
type FlightRepository interface {
	// FindByNumber returns apperror.ErrNotFound when no record matches.
	FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error)
	// Insert performs a conditional insert and returns
	// apperror.ErrDuplicateEntity when the key is already present.
	Insert(ctx context.Context, flight *entity.Flight) error
	// Update performs a conditional update and returns
	// apperror.ErrNotFound when no record matched.
	Update(ctx context.Context, flight *entity.Flight) error
	// Delete performs a conditional delete and returns
	// apperror.ErrNotFound when no record matched.
	Delete(ctx context.Context, flightNumber string) error
	// AverageTicketsPerFlight invokes the keyspace aggregate function and
	// returns apperror.ErrNotFound when there are no flights to average.
	AverageTicketsPerFlight(ctx context.Context) (float64, error)
}
