package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/planner/internal/store"
	"github.com/Makepad-fr/planner/internal/store/storetest"
)

func TestJSONStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(filepath.Join(t.TempDir(), "data", "foods.json"))
		require.NoError(t, err)
		return s
	})
}

func TestPersistsAcrossOpens(t *testing.T) {
	p := filepath.Join(t.TempDir(), "foods.json")
	ctx := context.Background()

	s, err := Open(p)
	require.NoError(t, err)
	_, err = s.Append(ctx, "rice")
	require.NoError(t, err)

	again, err := Open(p)
	require.NoError(t, err)
	items, err := again.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rice", items[0].Name)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"food": "rice"`)
}

func TestCorruptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))

	s, err := Open(p)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "json unmarshal")
}
