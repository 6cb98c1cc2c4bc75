package repository

import (
	"context"
	"time"

	"airportfm-service/internal/domain/entity"
	"airportfm-service/internal/domain/repository"
	"airportfm-service/pkg/apperror"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jFlightGraphRepository implements FlightGraphRepository over Bolt.
// Node properties on Flight are a snapshot of the record at edge-creation
// time; timestamps are stored as RFC 3339 strings, matching the seeded data.
type Neo4jFlightGraphRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jFlightGraphRepository creates a new graph repository
func NewNeo4jFlightGraphRepository(driver neo4j.DriverWithContext) repository.FlightGraphRepository {
	return &Neo4jFlightGraphRepository{
		driver: driver,
	}
}

const upsertEdgesCypher = `
MERGE (f:Flight {FlightNumber: $flight_number})
SET f += $snapshot
MERGE (a:Airline {AirlineID: $airline_id})
MERGE (ac:Aircraft {AircraftID: $aircraft_id})
MERGE (r:Route {RouteID: $route_id})
MERGE (f)-[:AFFILIATED_WITH]->(a)
MERGE (f)-[:OPERATED_BY]->(ac)
MERGE (f)-[:HAS_ROUTE]->(r)`

const deleteStaleEdgesCypher = `
MATCH (f:Flight {FlightNumber: $flight_number})
OPTIONAL MATCH (f)-[ra:AFFILIATED_WITH]->(a:Airline) WHERE a.AirlineID <> $airline_id
OPTIONAL MATCH (f)-[rc:OPERATED_BY]->(ac:Aircraft) WHERE ac.AircraftID <> $aircraft_id
OPTIONAL MATCH (f)-[rr:HAS_ROUTE]->(r:Route) WHERE r.RouteID <> $route_id
DELETE ra, rc, rr`

// UpsertFlightEdges merges the four nodes and three outgoing edges.
// Re-running with the same flight only refreshes the snapshot.
func (g *Neo4jFlightGraphRepository) UpsertFlightEdges(ctx context.Context, flight *entity.Flight) error {
	return g.write(ctx, upsertEdgesCypher, upsertParams(flight))
}

// ReplaceFlightEdges runs the upsert phase and then removes edges whose
// target ID no longer matches the record. The phases run in separate
// transactions; a failure in between leaves both old and new edges in
// place, which the coordinator reports as a degraded result.
func (g *Neo4jFlightGraphRepository) ReplaceFlightEdges(ctx context.Context, flight *entity.Flight) error {
	if err := g.write(ctx, upsertEdgesCypher, upsertParams(flight)); err != nil {
		return err
	}
	return g.write(ctx, deleteStaleEdgesCypher, map[string]any{
		"flight_number": flight.FlightNumber,
		"airline_id":    flight.AirlineID,
		"aircraft_id":   flight.AircraftID,
		"route_id":      flight.RouteID,
	})
}

// DeleteFlightCascade detaches and deletes the flight node. A MATCH that
// finds nothing is a no-op, so repeated deletes succeed.
func (g *Neo4jFlightGraphRepository) DeleteFlightCascade(ctx context.Context, flightNumber string) error {
	cypher := `MATCH (f:Flight {FlightNumber: $flight_number}) DETACH DELETE f`
	return g.write(ctx, cypher, map[string]any{"flight_number": flightNumber})
}

// FlightsForPassenger traverses REGISTERED_ON edges and rebuilds flights
// from the node property snapshots.
func (g *Neo4jFlightGraphRepository) FlightsForPassenger(ctx context.Context, passengerID string) ([]*entity.Flight, error) {
	cypher := `MATCH (p:Passenger {PassengerID: $passenger_id})-[:REGISTERED_ON]->(f:Flight) RETURN f`

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{"passenger_id": passengerID})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, apperror.Unavailable("neo4j", err)
	}

	var flights []*entity.Flight
	for _, record := range records.([]*neo4j.Record) {
		node, ok := record.Values[0].(neo4j.Node)
		if !ok {
			continue
		}
		flights = append(flights, flightFromNode(node.Props))
	}
	return flights, nil
}

func (g *Neo4jFlightGraphRepository) write(ctx context.Context, cypher string, params map[string]any) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return apperror.Unavailable("neo4j", err)
	}
	return nil
}

func upsertParams(flight *entity.Flight) map[string]any {
	snapshot := map[string]any{
		"FlightNumber":           flight.FlightNumber,
		"ScheduledDepartureTime": flight.ScheduledDepartureTime.Format(time.RFC3339),
		"ScheduledArrivalTime":   flight.ScheduledArrivalTime.Format(time.RFC3339),
		"FlightStatus":           flight.FlightStatus,
		"AirlineID":              flight.AirlineID,
		"AircraftID":             flight.AircraftID,
		"RouteID":                flight.RouteID,
	}
	if flight.ActualDepartureTime != nil {
		snapshot["ActualDepartureTime"] = flight.ActualDepartureTime.Format(time.RFC3339)
	}
	if flight.ActualArrivalTime != nil {
		snapshot["ActualArrivalTime"] = flight.ActualArrivalTime.Format(time.RFC3339)
	}

	return map[string]any{
		"flight_number": flight.FlightNumber,
		"snapshot":      snapshot,
		"airline_id":    flight.AirlineID,
		"aircraft_id":   flight.AircraftID,
		"route_id":      flight.RouteID,
	}
}

func flightFromNode(props map[string]any) *entity.Flight {
	flight := &entity.Flight{
		FlightNumber: stringProp(props, "FlightNumber"),
		FlightStatus: stringProp(props, "FlightStatus"),
		AirlineID:    stringProp(props, "AirlineID"),
		AircraftID:   stringProp(props, "AircraftID"),
		RouteID:      stringProp(props, "RouteID"),
	}
	if t, ok := timeProp(props, "ScheduledDepartureTime"); ok {
		flight.ScheduledDepartureTime = t
	}
	if t, ok := timeProp(props, "ScheduledArrivalTime"); ok {
		flight.ScheduledArrivalTime = t
	}
	if t, ok := timeProp(props, "ActualDepartureTime"); ok {
		flight.ActualDepartureTime = &t
	}
	if t, ok := timeProp(props, "ActualArrivalTime"); ok {
		flight.ActualArrivalTime = &t
	}
	return flight
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// timeProp tolerates both string-encoded and native temporal properties;
// the seed scripts wrote strings, the service writes RFC 3339.
func timeProp(props map[string]any, key string) (time.Time, bool) {
	switch v := props[key].(type) {
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	case time.Time:
		return v, true
	}
	return time.Time{}, false
}
