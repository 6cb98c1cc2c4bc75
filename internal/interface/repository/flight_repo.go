package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/domain/repository"
	"airportfm-service/pkg/apperror"

	"github.com/gocql/gocql"
)

// CassandraFlightRepository implements FlightRepository against the flights
// table. All writes are lightweight transactions so the conditional check
// happens at write time, not at the pre-check read.
type CassandraFlightRepository struct {
	session  *gocql.Session
	keyspace string
}

// NewCassandraFlightRepository creates a new flight repository bound to the
// given keyspace.
func NewCassandraFlightRepository(session *gocql.Session, keyspace string) repository.FlightRepository {
	return &CassandraFlightRepository{
		session:  session,
		keyspace: keyspace,
	}
}

// FindByNumber looks up a flight by its number.
func (r *CassandraFlightRepository) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	query := `SELECT flightnumber, scheduleddeparturetime, scheduledarrivaltime,
		actualdeparturetime, actualarrivaltime, flightstatus, airlineid, aircraftid, routeid
		FROM flights WHERE flightnumber = ?`

	var flight entity.Flight
	var actualDeparture, actualArrival time.Time

	err := r.session.Query(query, flightNumber).WithContext(ctx).Scan(
		&flight.FlightNumber,
		&flight.ScheduledDepartureTime,
		&flight.ScheduledArrivalTime,
		&actualDeparture,
		&actualArrival,
		&flight.FlightStatus,
		&flight.AirlineID,
		&flight.AircraftID,
		&flight.RouteID,
	)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Unavailable("cassandra", err)
	}

	// Null timestamps scan as zero values.
	if !actualDeparture.IsZero() {
		flight.ActualDepartureTime = &actualDeparture
	}
	if !actualArrival.IsZero() {
		flight.ActualArrivalTime = &actualArrival
	}

	return &flight, nil
}

// Insert adds a flight with IF NOT EXISTS so a concurrent duplicate loses at
// write time regardless of what its pre-check read saw.
func (r *CassandraFlightRepository) Insert(ctx context.Context, flight *entity.Flight) error {
	query := `INSERT INTO flights (flightnumber, scheduleddeparturetime, scheduledarrivaltime,
		actualdeparturetime, actualarrivaltime, flightstatus, airlineid, aircraftid, routeid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`

	applied, err := r.session.Query(query,
		flight.FlightNumber,
		flight.ScheduledDepartureTime,
		flight.ScheduledArrivalTime,
		flight.ActualDepartureTime,
		flight.ActualArrivalTime,
		flight.FlightStatus,
		flight.AirlineID,
		flight.AircraftID,
		flight.RouteID,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return apperror.Unavailable("cassandra", err)
	}
	if !applied {
		return apperror.ErrDuplicateEntity
	}
	return nil
}

// Update rewrites all mutable columns with IF EXISTS so a missing key is
// reported instead of upserted (a plain Cassandra UPDATE would insert).
func (r *CassandraFlightRepository) Update(ctx context.Context, flight *entity.Flight) error {
	query := `UPDATE flights SET scheduleddeparturetime = ?, scheduledarrivaltime = ?,
		actualdeparturetime = ?, actualarrivaltime = ?, flightstatus = ?,
		airlineid = ?, aircraftid = ?, routeid = ?
		WHERE flightnumber = ? IF EXISTS`

	applied, err := r.session.Query(query,
		flight.ScheduledDepartureTime,
		flight.ScheduledArrivalTime,
		flight.ActualDepartureTime,
		flight.ActualArrivalTime,
		flight.FlightStatus,
		flight.AirlineID,
		flight.AircraftID,
		flight.RouteID,
		flight.FlightNumber,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return apperror.Unavailable("cassandra", err)
	}
	if !applied {
		return apperror.ErrNotFound
	}
	return nil
}

// Delete removes a flight with IF EXISTS.
func (r *CassandraFlightRepository) Delete(ctx context.Context, flightNumber string) error {
	query := `DELETE FROM flights WHERE flightnumber = ? IF EXISTS`

	applied, err := r.session.Query(query, flightNumber).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return apperror.Unavailable("cassandra", err)
	}
	if !applied {
		return apperror.ErrNotFound
	}
	return nil
}

// AverageTicketsPerFlight invokes the keyspace UDF that averages ticket
// counts across flights. An empty flights table yields no row to aggregate
// over and is reported as apperror.ErrNotFound rather than a zero average.
func (r *CassandraFlightRepository) AverageTicketsPerFlight(ctx context.Context) (float64, error) {
	query := fmt.Sprintf("SELECT %s.avg_tickets_per_flight() AS average FROM flights LIMIT 1", r.keyspace)

	var average float64
	err := r.session.Query(query).WithContext(ctx).Scan(&average)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return 0, apperror.ErrNotFound
		}
		return 0, apperror.Unavailable("cassandra", err)
	}
	return average, nil
}
