package persistence

import (
	"time"

	"github.com/gocql/gocql"
)

// NewCassandraSession connects to the cluster and binds to the keyspace.
// Quorum consistency keeps the lightweight-transaction writes meaningful
// across replicas.
func NewCassandraSession(hosts []string, port int, keyspace string) (*gocql.Session, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Port = port
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	return cluster.CreateSession()
}
