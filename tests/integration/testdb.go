// Package integration runs the consolidation engine against a real PostgreSQL
// database started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hotelops/backend/internal/infrastructure/config"
	"github.com/hotelops/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDBName     = "hotel_test"
	testDBUser     = "postgres"
	testDBPassword = "admin123"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
	sharedDBConfig    *config.DatabaseConfig
)

// TestDB is a migrated hotel database on the shared container
type TestDB struct {
	*persistence.Database
	Config *config.DatabaseConfig
	t      *testing.T
}

// NewSharedTestDB returns a connection to the shared PostgreSQL container,
// starting and migrating it on first use. Tables are truncated before returning
// so each test starts empty.
func NewSharedTestDB(t *testing.T, opts ...persistence.Option) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()

	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase(testDBName),
			tcpostgres.WithUsername(testDBUser),
			tcpostgres.WithPassword(testDBPassword),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		host, err := container.Host(ctx)
		require.NoError(t, err, "Failed to get container host")
		port, err := container.MappedPort(ctx, "5432/tcp")
		require.NoError(t, err, "Failed to get container port")

		sharedContainer = container
		sharedDBConfig = &config.DatabaseConfig{
			Driver:       "postgres",
			Host:         host,
			Port:         port.Int(),
			User:         testDBUser,
			Password:     testDBPassword,
			DBName:       testDBName,
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		}

		db, err := persistence.NewDatabase(sharedDBConfig)
		require.NoError(t, err, "Failed to connect for migration")
		require.NoError(t, db.Migrate(), "Failed to migrate hotel tables")
		_ = db.Close()
	}

	db, err := persistence.NewDatabase(sharedDBConfig, opts...)
	require.NoError(t, err, "Failed to connect to database")

	tdb := &TestDB{Database: db, Config: sharedDBConfig, t: t}
	tdb.CleanTables()

	t.Cleanup(func() {
		_ = db.Close()
	})
	return tdb
}

// CleanTables truncates every hotel table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error
		require.NoError(tdb.t, err, "Failed to truncate table %s", table)
	}
}

// Seed inserts the given models in order
func (tdb *TestDB) Seed(values ...any) {
	tdb.t.Helper()
	for _, v := range values {
		require.NoError(tdb.t, tdb.DB.Create(v).Error)
	}
}

// CleanupSharedContainer terminates the shared container.
// Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedDBConfig = nil
	}
}
