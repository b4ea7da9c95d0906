// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/taskdeck/taskdeck/internal/store"
)

// NewTestStore creates an in-memory SQLite store with all migrations
// applied. It is closed automatically when the test completes.
func NewTestStore(t *testing.T) *store.SQL {
	t.Helper()

	s, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
