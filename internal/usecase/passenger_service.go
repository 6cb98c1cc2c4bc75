package usecase

import (
	"context"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/domain/repository"
	"airportfm-service/pkg/apperror"
	"airportfm-service/pkg/logger"
)

// PassengerService handles passenger lifecycle. Passengers live entirely in
// the document store: no operation here touches the flight store or the
// graph, so there is no saga and no degraded outcome.
type PassengerService struct {
	passengerRepo repository.PassengerRepository
	logger        logger.Logger
}

// NewPassengerService creates a new passenger service
func NewPassengerService(passengerRepo repository.PassengerRepository, logger logger.Logger) *PassengerService {
	return &PassengerService{
		passengerRepo: passengerRepo,
		logger:        logger,
	}
}

// CreatePassenger validates and inserts a passenger document.
func (s *PassengerService) CreatePassenger(ctx context.Context, passenger *entity.Passenger) error {
	if err := passenger.Validate(); err != nil {
		return err
	}

	if err := s.passengerRepo.Insert(ctx, passenger); err != nil {
		return err
	}

	s.logger.Info("Passenger created", "passengerId", passenger.PassengerID)
	return nil
}

// GetPassenger returns the passenger by ID.
func (s *PassengerService) GetPassenger(ctx context.Context, passengerID string) (*entity.Passenger, error) {
	return s.passengerRepo.FindByID(ctx, passengerID)
}

// UpdatePassenger merges the supplied fields into the stored document and
// returns the document as stored after the write. Fields absent from the
// update are left untouched.
func (s *PassengerService) UpdatePassenger(ctx context.Context, passengerID string, update *entity.PassengerUpdate) (*entity.Passenger, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	matched, err := s.passengerRepo.Update(ctx, passengerID, update)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, apperror.ErrNotFound
	}

	s.logger.Info("Passenger updated", "passengerId", passengerID)
	return s.passengerRepo.FindByID(ctx, passengerID)
}

// DeletePassenger removes the passenger document.
func (s *PassengerService) DeletePassenger(ctx context.Context, passengerID string) error {
	deleted, err := s.passengerRepo.Delete(ctx, passengerID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.ErrNotFound
	}

	s.logger.Info("Passenger deleted", "passengerId", passengerID)
	return nil
}

// ListByMinTicketCount returns passengers holding at least minTickets
// tickets. Negative thresholds are rejected; zero matches every passenger
// that has a Tickets field.
func (s *PassengerService) ListByMinTicketCount(ctx context.Context, minTickets int) ([]*entity.Passenger, error) {
	if minTickets < 0 {
		return nil, apperror.Validationf("min_tickets must not be negative")
	}
	return s.passengerRepo.FindByMinTicketCount(ctx, minTickets)
}
