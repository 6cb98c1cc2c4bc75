// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB (passenger documents)
	MongoURI string
	MongoDB  string

	// Cassandra (flight records)
	CassandraHosts    []string
	CassandraPort     int
	CassandraKeyspace string

	// Neo4j (relationship graph)
	Neo4jURIs     []string
	Neo4jUser     string
	Neo4jPassword string

	// Coordinator
	StoreCallTimeout  time.Duration
	GraphRetryMax     int
	GraphRetryBackoff time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "airportflightmanagement"),

		CassandraHosts:    getEnvAsList("CASSANDRA_HOSTS", "localhost"),
		CassandraPort:     getEnvAsInt("CASSANDRA_PORT", 9042),
		CassandraKeyspace: getEnv("CASSANDRA_KEYSPACE", "airportflightmanagement"),

		Neo4jURIs:     getEnvAsList("NEO4J_URIS", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),

		StoreCallTimeout:  time.Duration(getEnvAsInt("STORE_CALL_TIMEOUT", 5)) * time.Second,
		GraphRetryMax:     getEnvAsInt("GRAPH_RETRY_MAX", 3),
		GraphRetryBackoff: time.Duration(getEnvAsInt("GRAPH_RETRY_BACKOFF_MS", 100)) * time.Millisecond,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
