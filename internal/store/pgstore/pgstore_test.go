package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/planner/internal/store"
	"github.com/Makepad-fr/planner/internal/store/storetest"
)

// These tests need a live PostgreSQL; set PLANNER_PG_URL to run them.
func getEmptyStore(t *testing.T) *PgStore {
	t.Helper()
	url := os.Getenv("PLANNER_PG_URL")
	if url == "" {
		t.Skip("PLANNER_PG_URL not set")
	}
	p, err := Open(context.Background(), url)
	require.NoError(t, err)
	require.NoError(t, p.Nuke(context.Background()))
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPgStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return getEmptyStore(t) })
}

func TestString(t *testing.T) {
	p := &PgStore{connectionURL: DefaultConnectionURL}
	s := p.String()
	assert.Contains(t, s, "Host: localhost")
	assert.Contains(t, s, "MaxConns: 5")
	assert.NotContains(t, s, "postgres:postgres")
}
