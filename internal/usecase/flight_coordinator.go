package usecase

import (
	"context"
	"errors"
	"time"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/domain/repository"
	"airportfm-service/pkg/apperror"
	"airportfm-service/pkg/logger"
	"airportfm-service/pkg/metrics"
	"airportfm-service/pkg/retry"

	"github.com/google/uuid"
)

// OutcomeState is the terminal state of a coordinator operation.
type OutcomeState string

const (
	// OutcomeCommitted means both the primary write and the graph step
	// succeeded.
	OutcomeCommitted OutcomeState = "committed"
	// OutcomeRejected means the primary step failed and no side effects
	// exist in either store.
	OutcomeRejected OutcomeState = "rejected"
	// OutcomeDegraded means the primary write committed but the graph step
	// failed. The primary record stands; the graph lags until reconciled.
	OutcomeDegraded OutcomeState = "degraded"
)

// FlightOutcome is the single logical result of a two-store flight
// operation. There is no rolled-back state: the graph is a derived index
// and the canonical write is never compensated.
type FlightOutcome struct {
	State       OutcomeState
	Flight      *entity.Flight
	OperationID string
	Err         error                    // populated when Rejected
	Partial     *apperror.PartialFailure // populated when Degraded
}

// Committed reports whether both steps succeeded.
func (o FlightOutcome) Committed() bool { return o.State == OutcomeCommitted }

// Rejected reports whether the primary step failed with no side effects.
func (o FlightOutcome) Rejected() bool { return o.State == OutcomeRejected }

// Degraded reports whether the canonical write stands but the graph lags.
func (o FlightOutcome) Degraded() bool { return o.State == OutcomeDegraded }

// FlightCoordinator sequences flight operations across the canonical
// Cassandra store and the derived Neo4j graph. The two stores share no
// transaction boundary; ordering and the no-rollback policy live here.
// The coordinator holds no per-request state and performs no mutual
// exclusion on FlightNumber; uniqueness under races is settled by the
// primary store's conditional writes.
type FlightCoordinator struct {
	flightRepo repository.FlightRepository
	graphRepo  repository.FlightGraphRepository
	logger     logger.Logger
	metrics    *metrics.Metrics
	timeout    time.Duration
	retryCfg   retry.Config
}

// NewFlightCoordinator creates a new flight coordinator
func NewFlightCoordinator(
	flightRepo repository.FlightRepository,
	graphRepo repository.FlightGraphRepository,
	logger logger.Logger,
	m *metrics.Metrics,
	storeCallTimeout time.Duration,
	retryCfg retry.Config,
) *FlightCoordinator {
	if storeCallTimeout <= 0 {
		storeCallTimeout = 5 * time.Second
	}
	return &FlightCoordinator{
		flightRepo: flightRepo,
		graphRepo:  graphRepo,
		logger:     logger,
		metrics:    m,
		timeout:    storeCallTimeout,
		retryCfg:   retryCfg,
	}
}

// CreateFlight inserts the canonical record, then upserts the relationship
// edges. A duplicate number rejects the whole operation before any graph
// call; a graph failure degrades the result but never undoes the insert.
func (c *FlightCoordinator) CreateFlight(ctx context.Context, flight *entity.Flight) FlightOutcome {
	opID := uuid.New().String()
	log := c.logger.With("operation", "CreateFlight", "operationId", opID, "flightNumber", flight.FlightNumber)

	if err := flight.Validate(); err != nil {
		return c.rejected("CreateFlight", opID, err)
	}

	// Pre-check read: cheap duplicate detection for the common case. The
	// conditional insert below is what actually decides races.
	if err := c.primaryCall(ctx, "find", func(ctx context.Context) error {
		_, ferr := c.flightRepo.FindByNumber(ctx, flight.FlightNumber)
		return ferr
	}); err == nil {
		log.Info("Flight number already taken")
		return c.rejected("CreateFlight", opID, apperror.ErrDuplicateEntity)
	}

	if err := c.primaryCall(ctx, "insert", func(ctx context.Context) error {
		return c.flightRepo.Insert(ctx, flight)
	}); err != nil {
		log.Error("Primary insert failed", "error", err)
		return c.rejected("CreateFlight", opID, err)
	}

	if err := c.graphCall(ctx, "upsert_edges", func(ctx context.Context) error {
		return c.graphRepo.UpsertFlightEdges(ctx, flight)
	}); err != nil {
		log.Warn("Graph upsert failed after primary insert", "error", err)
		return c.degraded("CreateFlight", opID, flight, "upsert_edges",
			"relationship edges are missing for the flight", err)
	}

	log.Info("Flight created")
	return c.committed("CreateFlight", opID, flight)
}

// UpdateFlight rewrites the canonical record, then replaces the
// relationship edges. Edge replacement is two-phase and non-atomic in the
// graph store; a failure there leaves stale or dual edges, reported as a
// degraded result. No in-request retry loop beyond the bounded backoff on
// store unavailability, and never a rollback.
func (c *FlightCoordinator) UpdateFlight(ctx context.Context, flightNumber string, flight *entity.Flight) FlightOutcome {
	opID := uuid.New().String()
	log := c.logger.With("operation", "UpdateFlight", "operationId", opID, "flightNumber", flightNumber)

	flight.FlightNumber = flightNumber
	if err := flight.Validate(); err != nil {
		return c.rejected("UpdateFlight", opID, err)
	}

	if err := c.primaryCall(ctx, "update", func(ctx context.Context) error {
		return c.flightRepo.Update(ctx, flight)
	}); err != nil {
		log.Error("Primary update failed", "error", err)
		return c.rejected("UpdateFlight", opID, err)
	}

	if err := c.graphCall(ctx, "replace_edges", func(ctx context.Context) error {
		return c.graphRepo.ReplaceFlightEdges(ctx, flight)
	}); err != nil {
		log.Warn("Graph edge replacement failed after primary update", "error", err)
		return c.degraded("UpdateFlight", opID, flight, "replace_edges",
			"edges may point at both the old and new airline, aircraft or route", err)
	}

	log.Info("Flight updated")
	return c.committed("UpdateFlight", opID, flight)
}

// DeleteFlight removes the canonical record, then cascades the graph
// delete. A missing record rejects before any graph call: graph state is
// never deleted for a flight that was not canonical. An orphaned graph node
// after a degraded delete carries no authority.
func (c *FlightCoordinator) DeleteFlight(ctx context.Context, flightNumber string) FlightOutcome {
	opID := uuid.New().String()
	log := c.logger.With("operation", "DeleteFlight", "operationId", opID, "flightNumber", flightNumber)

	if err := c.primaryCall(ctx, "delete", func(ctx context.Context) error {
		return c.flightRepo.Delete(ctx, flightNumber)
	}); err != nil {
		log.Error("Primary delete failed", "error", err)
		return c.rejected("DeleteFlight", opID, err)
	}

	if err := c.graphCall(ctx, "cascade_delete", func(ctx context.Context) error {
		return c.graphRepo.DeleteFlightCascade(ctx, flightNumber)
	}); err != nil {
		log.Warn("Graph cascade delete failed after primary delete", "error", err)
		return c.degraded("DeleteFlight", opID, nil, "cascade_delete",
			"an orphaned flight node and its edges remain in the graph", err)
	}

	log.Info("Flight deleted")
	return c.committed("DeleteFlight", opID, nil)
}

// GetFlight is a pure primary-store read.
func (c *FlightCoordinator) GetFlight(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	var flight *entity.Flight
	err := c.primaryCall(ctx, "find", func(ctx context.Context) error {
		var ferr error
		flight, ferr = c.flightRepo.FindByNumber(ctx, flightNumber)
		return ferr
	})
	if err != nil {
		c.countError("GetFlight")
		return nil, err
	}
	return flight, nil
}

// FlightsForPassenger is a pure graph read. The returned attributes are the
// node snapshot from edge-creation time; callers needing current status
// must re-fetch by flight number.
func (c *FlightCoordinator) FlightsForPassenger(ctx context.Context, passengerID string) ([]*entity.Flight, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	flights, err := c.graphRepo.FlightsForPassenger(callCtx, passengerID)
	c.observe("neo4j", "flights_for_passenger", start)
	if err != nil {
		c.countError("FlightsForPassenger")
		return nil, classify("neo4j", err)
	}
	return flights, nil
}

// AverageTicketsPerFlight is a pure primary-store read.
func (c *FlightCoordinator) AverageTicketsPerFlight(ctx context.Context) (float64, error) {
	var avg float64
	err := c.primaryCall(ctx, "avg_tickets", func(ctx context.Context) error {
		var ferr error
		avg, ferr = c.flightRepo.AverageTicketsPerFlight(ctx)
		return ferr
	})
	if err != nil {
		c.countError("AverageTicketsPerFlight")
	}
	return avg, err
}

// primaryCall runs a primary-store step under the per-call timeout.
func (c *FlightCoordinator) primaryCall(ctx context.Context, call string, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	c.observe("cassandra", call, start)
	return classify("cassandra", err)
}

// graphCall runs a graph-store step under the per-call timeout, retrying
// only on store unavailability. Retry exhaustion surfaces as the original
// error; the caller downgrades it to a degraded outcome.
func (c *FlightCoordinator) graphCall(ctx context.Context, call string, fn func(context.Context) error) error {
	return retry.Do(ctx, c.retryCfg, apperror.IsUnavailable, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		start := time.Now()
		err := fn(callCtx)
		c.observe("neo4j", call, start)
		return classify("neo4j", err)
	})
}

func (c *FlightCoordinator) observe(store, call string, start time.Time) {
	if c.metrics != nil {
		c.metrics.StoreLatency.WithLabelValues(store, call).Observe(time.Since(start).Seconds())
	}
}

// classify maps context timeouts onto the unavailability sentinel so the
// caller treats a slow store the same as an unreachable one.
func classify(store string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !apperror.IsUnavailable(err) {
		return apperror.Unavailable(store, err)
	}
	return err
}

func (c *FlightCoordinator) committed(op, opID string, flight *entity.Flight) FlightOutcome {
	c.count(op, OutcomeCommitted)
	return FlightOutcome{State: OutcomeCommitted, Flight: flight, OperationID: opID}
}

func (c *FlightCoordinator) rejected(op, opID string, err error) FlightOutcome {
	c.count(op, OutcomeRejected)
	c.countError(op)
	return FlightOutcome{State: OutcomeRejected, OperationID: opID, Err: err}
}

func (c *FlightCoordinator) degraded(op, opID string, flight *entity.Flight, step, risk string, err error) FlightOutcome {
	c.count(op, OutcomeDegraded)
	if c.metrics != nil {
		c.metrics.PartialFailures.WithLabelValues(op, step).Inc()
	}
	return FlightOutcome{
		State:       OutcomeDegraded,
		Flight:      flight,
		OperationID: opID,
		Partial: &apperror.PartialFailure{
			Op:          op,
			OperationID: opID,
			Step:        step,
			Risk:        risk,
			Err:         err,
		},
	}
}

func (c *FlightCoordinator) count(op string, state OutcomeState) {
	if c.metrics != nil {
		c.metrics.Operations.WithLabelValues(op, string(state)).Inc()
	}
}

func (c *FlightCoordinator) countError(op string) {
	if c.metrics != nil {
		c.metrics.ErrorsCount.WithLabelValues(op).Inc()
	}
}
