package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"cafe-site/internal/database"
	"cafe-site/internal/docstore"
	"cafe-site/internal/fallback"
	"cafe-site/internal/handler"
	"cafe-site/internal/realtime"
	"cafe-site/internal/router"
	"cafe-site/internal/service"
	"cafe-site/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAdminKey = "integration-admin-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the documents schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Stack is one running instance of the application against the test database.
type Stack struct {
	Adapter *docstore.PostgresAdapter
	Store   *store.Store
	Handler http.Handler
	Hub     *realtime.Hub
}

// SetupStack starts an adapter, a store with the built-in fallback content and
// the HTTP router on top of testDB. Several stacks may share one database.
func SetupStack(t *testing.T, testDB *TestDB) *Stack {
	t.Helper()

	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())

	adapter := docstore.NewPostgresAdapter(testDB.Pool, logger)
	if err := adapter.Start(ctx); err != nil {
		cancel()
		t.Fatalf("failed to start adapter: %v", err)
	}

	st := store.New(adapter, fallback.Builtin(), logger)

	hub := realtime.NewHub("public", logger)
	unsubscribe := st.Subscribe(func(snap store.Snapshot) {
		hub.Publish(snap.Version, service.PublicView(snap))
	})
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.Run(ctx)
	}()

	st.Start()

	h := router.New(router.Handlers{
		Site:        handler.NewSiteHandler(service.NewSiteService(st, logger), logger),
		Menu:        handler.NewMenuHandler(service.NewMenuService(st, logger), service.NewCategoryService(st, logger), logger),
		Reservation: handler.NewReservationHandler(service.NewReservationService(st, logger), logger),
		Auth:        handler.NewAuthHandler(testAdminKey, logger),
		PublicWS:    hub,
	}, testAdminKey, logger)

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()

		unsubscribe()
		_ = st.Stop(stopCtx)
		cancel()
		<-hubDone
		adapter.Close()
	})

	return &Stack{Adapter: adapter, Store: st, Handler: h, Hub: hub}
}

// CleanupDB removes every stored document.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM documents"); err != nil {
		t.Logf("failed to clean documents: %v", err)
	}
}
