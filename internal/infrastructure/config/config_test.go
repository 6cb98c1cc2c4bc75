package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "airportflightmanagement", cfg.CassandraKeyspace)
	assert.Equal(t, []string{"localhost"}, cfg.CassandraHosts)
	assert.Equal(t, 9042, cfg.CassandraPort)
	assert.Equal(t, []string{"bolt://localhost:7687"}, cfg.Neo4jURIs)
	assert.Equal(t, 5*time.Second, cfg.StoreCallTimeout)
	assert.Equal(t, 3, cfg.GraphRetryMax)
}

func TestListEnvParsing(t *testing.T) {
	t.Setenv("NEO4J_URIS", "bolt://neo4j1:7687, bolt://neo4j2:7687,,bolt://neo4j3:7687")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"bolt://neo4j1:7687", "bolt://neo4j2:7687", "bolt://neo4j3:7687"}, cfg.Neo4jURIs)
}
