package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/pkg/apperror"
	"airportfm-service/pkg/logger"
	"airportfm-service/pkg/metrics"
	"airportfm-service/pkg/retry"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFlightRepo mimics the conditional-write semantics of the Cassandra
// adapter: the write itself decides duplicates and missing keys.
type fakeFlightRepo struct {
	mu      sync.Mutex
	flights map[string]entity.Flight

	findCalls   int
	insertCalls int
	updateCalls int
	deleteCalls int

	failInsert        error
	blockUntilCtxDone bool
}

func newFakeFlightRepo() *fakeFlightRepo {
	return &fakeFlightRepo{flights: make(map[string]entity.Flight)}
}

func (f *fakeFlightRepo) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	flight, ok := f.flights[flightNumber]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	copied := flight
	return &copied, nil
}

func (f *fakeFlightRepo) Insert(ctx context.Context, flight *entity.Flight) error {
	if f.blockUntilCtxDone {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.failInsert != nil {
		return f.failInsert
	}
	if _, ok := f.flights[flight.FlightNumber]; ok {
		return apperror.ErrDuplicateEntity
	}
	f.flights[flight.FlightNumber] = *flight
	return nil
}

func (f *fakeFlightRepo) Update(ctx context.Context, flight *entity.Flight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if _, ok := f.flights[flight.FlightNumber]; !ok {
		return apperror.ErrNotFound
	}
	f.flights[flight.FlightNumber] = *flight
	return nil
}

func (f *fakeFlightRepo) Delete(ctx context.Context, flightNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if _, ok := f.flights[flightNumber]; !ok {
		return apperror.ErrNotFound
	}
	delete(f.flights, flightNumber)
	return nil
}

func (f *fakeFlightRepo) AverageTicketsPerFlight(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.flights) == 0 {
		return 0, apperror.ErrNotFound
	}
	return 1.5, nil
}

// fakeGraphRepo records edge state as the latest snapshot per flight and
// can be forced to fail a number of calls.
type fakeGraphRepo struct {
	mu        sync.Mutex
	snapshots map[string]entity.Flight
	links     map[string][]string // passengerID -> flight numbers

	upsertCalls  int
	replaceCalls int
	cascadeCalls int

	failNext int   // fail this many upcoming write calls
	failWith error // error used for forced failures
}

func newFakeGraphRepo() *fakeGraphRepo {
	return &fakeGraphRepo{
		snapshots: make(map[string]entity.Flight),
		links:     make(map[string][]string),
	}
}

func (g *fakeGraphRepo) failure() error {
	if g.failNext > 0 {
		g.failNext--
		if g.failWith != nil {
			return g.failWith
		}
		return apperror.Unavailable("neo4j", context.DeadlineExceeded)
	}
	return nil
}

func (g *fakeGraphRepo) UpsertFlightEdges(ctx context.Context, flight *entity.Flight) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.upsertCalls++
	if err := g.failure(); err != nil {
		return err
	}
	g.snapshots[flight.FlightNumber] = *flight
	return nil
}

func (g *fakeGraphRepo) ReplaceFlightEdges(ctx context.Context, flight *entity.Flight) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replaceCalls++
	if err := g.failure(); err != nil {
		return err
	}
	g.snapshots[flight.FlightNumber] = *flight
	return nil
}

func (g *fakeGraphRepo) DeleteFlightCascade(ctx context.Context, flightNumber string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cascadeCalls++
	if err := g.failure(); err != nil {
		return err
	}
	// Idempotent: absence is not an error.
	delete(g.snapshots, flightNumber)
	return nil
}

func (g *fakeGraphRepo) FlightsForPassenger(ctx context.Context, passengerID string) ([]*entity.Flight, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var flights []*entity.Flight
	for _, number := range g.links[passengerID] {
		if snapshot, ok := g.snapshots[number]; ok {
			copied := snapshot
			flights = append(flights, &copied)
		}
	}
	return flights, nil
}

func testFlight(number string) *entity.Flight {
	return &entity.Flight{
		FlightNumber:           number,
		ScheduledDepartureTime: time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC),
		ScheduledArrivalTime:   time.Date(2024, 12, 25, 12, 0, 0, 0, time.UTC),
		FlightStatus:           entity.FlightStatusConfirmed,
		AirlineID:              "AL01",
		AircraftID:             "AC01",
		RouteID:                "R01",
	}
}

func newTestCoordinator(flights *fakeFlightRepo, graph *fakeGraphRepo) *FlightCoordinator {
	retryCfg := retry.Config{MaxAttempts: 1}
	return NewFlightCoordinator(flights, graph, logger.NewNop(), nil, time.Second, retryCfg)
}

func TestCreateFlightCommitted(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	outcome := c.CreateFlight(context.Background(), testFlight("FL0001"))

	require.True(t, outcome.Committed())
	assert.NotEmpty(t, outcome.OperationID)
	assert.Equal(t, 1, flights.insertCalls)
	assert.Equal(t, 1, graph.upsertCalls)
}

func TestCreateFlightDuplicateRejected(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	first := testFlight("FL0001")
	require.True(t, c.CreateFlight(context.Background(), first).Committed())

	second := testFlight("FL0001")
	second.AirlineID = "AL99"
	outcome := c.CreateFlight(context.Background(), second)

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsDuplicate(outcome.Err))
	// Fail-fast: no graph call beyond the first create's upsert.
	assert.Equal(t, 1, graph.upsertCalls)

	// The first record is unchanged.
	stored, err := c.GetFlight(context.Background(), "FL0001")
	require.NoError(t, err)
	assert.Equal(t, "AL01", stored.AirlineID)
}

func TestCreateFlightRacyDuplicateLosesAtWriteTime(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	// Simulate a concurrent winner landing between pre-check and insert:
	// the pre-check sees nothing, the conditional write still rejects.
	flights.failInsert = apperror.ErrDuplicateEntity
	outcome := c.CreateFlight(context.Background(), testFlight("FL0002"))

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsDuplicate(outcome.Err))
	assert.Equal(t, 0, graph.upsertCalls)
}

func TestCreateFlightGraphFailureDegraded(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	graph.failNext = 1
	c := newTestCoordinator(flights, graph)

	outcome := c.CreateFlight(context.Background(), testFlight("FL0001"))

	require.True(t, outcome.Degraded())
	require.NotNil(t, outcome.Partial)
	assert.Equal(t, "upsert_edges", outcome.Partial.Step)
	assert.Equal(t, outcome.OperationID, outcome.Partial.OperationID)

	// The canonical record stands and is retrievable.
	stored, err := c.GetFlight(context.Background(), "FL0001")
	require.NoError(t, err)
	assert.Equal(t, "FL0001", stored.FlightNumber)
}

func TestCreateFlightValidationRejected(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	flight := testFlight("FL0001")
	flight.AirlineID = ""
	outcome := c.CreateFlight(context.Background(), flight)

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsValidation(outcome.Err))
	assert.Equal(t, 0, flights.insertCalls)
	assert.Equal(t, 0, graph.upsertCalls)
}

func TestUpdateFlightNotFoundRejected(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	outcome := c.UpdateFlight(context.Background(), "FL0404", testFlight("FL0404"))

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsNotFound(outcome.Err))
	assert.Equal(t, 0, graph.replaceCalls)
}

func TestUpdateFlightGraphFailureDegraded(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Committed())

	graph.failNext = 1
	updated := testFlight("FL0001")
	updated.AirlineID = "AL02"
	outcome := c.UpdateFlight(context.Background(), "FL0001", updated)

	require.True(t, outcome.Degraded())
	assert.Equal(t, "replace_edges", outcome.Partial.Step)

	// Primary store holds the new value even though the graph lags.
	stored, err := c.GetFlight(context.Background(), "FL0001")
	require.NoError(t, err)
	assert.Equal(t, "AL02", stored.AirlineID)
	// Graph snapshot still shows the old airline.
	assert.Equal(t, "AL01", graph.snapshots["FL0001"].AirlineID)
}

func TestDeleteFlightNotFoundRejected(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	outcome := c.DeleteFlight(context.Background(), "FL0404")

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsNotFound(outcome.Err))
	// Fail-fast symmetry with create: graph state is never deleted for a
	// flight that was not canonical.
	assert.Equal(t, 0, graph.cascadeCalls)
}

func TestDeleteFlightGraphFailureDegraded(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Committed())

	graph.failNext = 1
	outcome := c.DeleteFlight(context.Background(), "FL0001")

	require.True(t, outcome.Degraded())
	assert.Equal(t, "cascade_delete", outcome.Partial.Step)

	// Canonical record is gone; the orphaned node carries no authority.
	_, err := c.GetFlight(context.Background(), "FL0001")
	assert.True(t, apperror.IsNotFound(err))
	_, orphaned := graph.snapshots["FL0001"]
	assert.True(t, orphaned)
}

func TestGraphStepRetriesOnUnavailability(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	graph.failNext = 2
	graph.failWith = apperror.Unavailable("neo4j", context.DeadlineExceeded)

	retryCfg := retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}
	c := NewFlightCoordinator(flights, graph, logger.NewNop(), nil, time.Second, retryCfg)

	outcome := c.CreateFlight(context.Background(), testFlight("FL0001"))

	require.True(t, outcome.Committed())
	assert.Equal(t, 3, graph.upsertCalls)
}

func TestGraphStepDoesNotRetryOtherErrors(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	graph.failNext = 1
	graph.failWith = assert.AnError

	retryCfg := retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1}
	c := NewFlightCoordinator(flights, graph, logger.NewNop(), nil, time.Second, retryCfg)

	outcome := c.CreateFlight(context.Background(), testFlight("FL0001"))

	require.True(t, outcome.Degraded())
	assert.Equal(t, 1, graph.upsertCalls)
}

func TestPrimaryTimeoutClassifiedAsUnavailable(t *testing.T) {
	flights := newFakeFlightRepo()
	flights.blockUntilCtxDone = true
	graph := newFakeGraphRepo()

	c := NewFlightCoordinator(flights, graph, logger.NewNop(), nil, 20*time.Millisecond, retry.Config{MaxAttempts: 1})

	outcome := c.CreateFlight(context.Background(), testFlight("FL0001"))

	require.True(t, outcome.Rejected())
	assert.True(t, apperror.IsUnavailable(outcome.Err))
	assert.Equal(t, 0, graph.upsertCalls)
}

func TestUpdateReflectedInPassengerQueryAfterReplacement(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Committed())
	graph.links["P0001"] = []string{"FL0001"}

	// Before the update, the passenger's view shows the original airline.
	before, err := c.FlightsForPassenger(context.Background(), "P0001")
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "AL01", before[0].AirlineID)

	updated := testFlight("FL0001")
	updated.AirlineID = "AL02"
	require.True(t, c.UpdateFlight(context.Background(), "FL0001", updated).Committed())

	// After edge replacement completes, the snapshot reflects AL02.
	after, err := c.FlightsForPassenger(context.Background(), "P0001")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "AL02", after[0].AirlineID)
}

func TestAverageTicketsNotFoundWithoutFlights(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	c := newTestCoordinator(flights, graph)

	_, err := c.AverageTicketsPerFlight(context.Background())
	assert.True(t, apperror.IsNotFound(err))

	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Committed())
	avg, err := c.AverageTicketsPerFlight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, avg)
}

func TestRejectedOperationsIncrementErrorCounter(t *testing.T) {
	flights := newFakeFlightRepo()
	graph := newFakeGraphRepo()
	m := metrics.NewMetrics("airportfm_coordinator_test")
	c := NewFlightCoordinator(flights, graph, logger.NewNop(), m, time.Second, retry.Config{MaxAttempts: 1})

	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Committed())
	require.True(t, c.CreateFlight(context.Background(), testFlight("FL0001")).Rejected())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsCount.WithLabelValues("CreateFlight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("CreateFlight", string(OutcomeRejected))))
}

func TestCascadeDeleteIsIdempotent(t *testing.T) {
	graph := newFakeGraphRepo()

	require.NoError(t, graph.DeleteFlightCascade(context.Background(), "FL0001"))
	require.NoError(t, graph.DeleteFlightCascade(context.Background(), "FL0001"))
	assert.Equal(t, 2, graph.cascadeCalls)
}
