package repository

import (
	"context"

	"airportfm-service/internal/domain/entity"
)

// PassengerRepository is the contract for the canonical passenger store
// (document). Passenger documents are self-contained; tickets and baggage
// are embedded and never addressed independently.
type PassengerRepository interface {
	// FindByID returns apperror.ErrNotFound when no document matches.
	FindByID(ctx context.Context, passengerID string) (*entity.Passenger, error)
	// Insert returns apperror.ErrDuplicateEntity when the PassengerID is
	// already taken. The store's unique index is the authoritative gate.
	Insert(ctx context.Context, passenger *entity.Passenger) error
	// Update applies merge semantics: only fields supplied in the update
	// are replaced, absent fields keep their stored values. Returns the
	// number of matched documents.
	Update(ctx context.Context, passengerID string, update *entity.PassengerUpdate) (int64, error)
	// Delete returns the number of deleted documents.
	Delete(ctx context.Context, passengerID string) (int64, error)
	// FindByMinTicketCount returns passengers whose ticket count is at
	// least minTickets. Documents without a Tickets field are excluded.
	FindByMinTicketCount(ctx context.Context, minTickets int) ([]*entity.Passenger, error)
}
