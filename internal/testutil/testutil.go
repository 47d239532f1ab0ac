package testutil

import (
	"context"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/avelichko/inkwell/internal/db"
)

// PostgresContainer is a migrated throwaway database for one test function.
// Terminate must be called when the test finishes, t.Cleanup is the usual place
type PostgresContainer struct {
	Pool      *pgxpool.Pool
	DSN       string
	Terminate func()
}

// StartPostgresContainer runs postgres in docker, applies migrations and
// hands back a ready connection pool. The whole test fails early when docker
// is not available, that beats a confusing testcontainers stack trace
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput()
	if err != nil {
		t.Fatalf("docker is not available or not running: %s", out)
	}

	container, err := postgres.Run(t.Context(),
		"postgres:17-alpine",
		postgres.WithDatabase("inkwell-test"),
		postgres.WithUsername("inkwell"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "postgres container should start")

	dsn, err := container.ConnectionString(t.Context())
	require.NoError(t, err, "container should expose a connection string")
	t.Logf("postgres container started, DSN=%v", dsn)

	dbpool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "should connect and migrate the test database")

	return PostgresContainer{
		Pool: dbpool,
		DSN:  dsn,
		Terminate: func() {
			dbpool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

type dbtx interface {
	Begin(context.Context) (pgx.Tx, error)
}

// WithTx runs testFunc inside a transaction that is rolled back when the
// test ends, so the database stays clean between tests. Works on a pool and
// on another transaction alike: pgx turns nested Begin into a savepoint
func WithTx(dbtx dbtx, t *testing.T, testFunc func(tx pgx.Tx)) {
	tx, err := dbtx.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		err := tx.Rollback(t.Context())
		require.NoError(t, err)
	}()

	testFunc(tx)
}
