package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airportfm-service/internal/infrastructure/config"
	"airportfm-service/internal/infrastructure/persistence"
	"airportfm-service/internal/interface/httpapi"
	storeRepo "airportfm-service/internal/interface/repository"
	"airportfm-service/internal/usecase"
	"airportfm-service/pkg/logger"
	"airportfm-service/pkg/metrics"
	"airportfm-service/pkg/retry"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Starting Airport Flight Management Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection (passenger documents)
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up Cassandra session (flight records)
	log.Info("Connecting to Cassandra")
	cassandraSession, err := persistence.NewCassandraSession(cfg.CassandraHosts, cfg.CassandraPort, cfg.CassandraKeyspace)
	if err != nil {
		log.Fatal("Failed to connect to Cassandra", "error", err)
	}

	// Set up Neo4j driver (relationship graph)
	log.Info("Connecting to Neo4j")
	neo4jDriver, err := persistence.NewNeo4jDriver(ctx, cfg.Neo4jURIs, cfg.Neo4jUser, cfg.Neo4jPassword, log)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", "error", err)
	}

	// Set up repositories
	flightRepo := storeRepo.NewCassandraFlightRepository(cassandraSession, cfg.CassandraKeyspace)
	passengerRepo := storeRepo.NewMongoPassengerRepository(db)
	graphRepo := storeRepo.NewNeo4jFlightGraphRepository(neo4jDriver)

	// Set up metrics and use cases
	m := metrics.NewMetrics("airportfm")
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.GraphRetryMax
	retryCfg.InitialDelay = cfg.GraphRetryBackoff

	coordinator := usecase.NewFlightCoordinator(flightRepo, graphRepo, log, m, cfg.StoreCallTimeout, retryCfg)
	passengerService := usecase.NewPassengerService(passengerRepo, log)

	// Set up HTTP server
	flightHandler := httpapi.NewFlightHandler(coordinator, log)
	passengerHandler := httpapi.NewPassengerHandler(passengerService, log)
	router := httpapi.NewRouter(flightHandler, passengerHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	cassandraSession.Close()
	if err := neo4jDriver.Close(shutdownCtx); err != nil {
		log.Error("Neo4j driver close error", "error", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Airport Flight Management Service stopped")
}
