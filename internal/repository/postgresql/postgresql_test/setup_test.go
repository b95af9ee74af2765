package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by repository tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL, skipping the test when it
// is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	return &TestDatabaseSetup{DB: db}
}

// DeleteNamespace removes every entry written under namespace
func (s *TestDatabaseSetup) DeleteNamespace(ctx context.Context, namespace string) error {
	if _, err := s.DB.Exec(ctx, `DELETE FROM kv_entries WHERE namespace = $1`, namespace); err != nil {
		return fmt.Errorf("failed to clean namespace %s: %w", namespace, err)
	}
	return nil
}
