package persistence

import (
	"context"
	"fmt"

	"airportfm-service/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewNeo4jDriver tries each configured bolt URI in order and returns the
// first driver that passes a connectivity check. The cluster nodes are
// equivalent, so any reachable member will do.
func NewNeo4jDriver(ctx context.Context, uris []string, username, password string, log logger.Logger) (neo4j.DriverWithContext, error) {
	auth := neo4j.BasicAuth(username, password, "")

	for _, uri := range uris {
		driver, err := neo4j.NewDriverWithContext(uri, auth)
		if err != nil {
			log.Warn("Failed to create Neo4j driver", "uri", uri, "error", err)
			continue
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			log.Warn("Neo4j node unreachable", "uri", uri, "error", err)
			driver.Close(ctx)
			continue
		}
		log.Info("Connected to Neo4j", "uri", uri)
		return driver, nil
	}

	return nil, fmt.Errorf("no reachable Neo4j node among %v", uris)
}
