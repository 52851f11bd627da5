package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/planner/internal/store"
	"github.com/Makepad-fr/planner/internal/store/storetest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openTemp(t) })
}

func TestMemoryDatabase(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Append(context.Background(), "rice")
	require.NoError(t, err)
	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestReopenKeepsItems(t *testing.T) {
	p := filepath.Join(t.TempDir(), "planner.db")
	ctx := context.Background()

	s, err := Open(p)
	require.NoError(t, err)
	first, err := s.Append(ctx, "rice")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(p)
	require.NoError(t, err)
	defer s.Close()
	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
}
