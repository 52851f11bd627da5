// Package storetest runs the same behavioural checks against every store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/planner/internal/store"
)

// Run exercises a Store built fresh by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("EmptyList", func(t *testing.T) {
		s := open(t)
		items, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("AppendKeepsOrder", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		for _, n := range []string{"rice", "kimchi", "tteok"} {
			it, err := s.Append(ctx, n)
			require.NoError(t, err)
			assert.Equal(t, n, it.Name)
			assert.False(t, it.Eaten)
			assert.NotEmpty(t, it.ID)
		}
		assert.Equal(t, []string{"rice", "kimchi", "tteok"}, names(t, s))
	})

	t.Run("AppendDuplicate", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		_, err := s.Append(ctx, "rice")
		require.NoError(t, err)
		_, err = s.Append(ctx, "rice")
		assert.ErrorIs(t, err, store.ErrExists)
		assert.Equal(t, []string{"rice"}, names(t, s))
	})

	t.Run("AppendEmptyName", func(t *testing.T) {
		s := open(t)
		_, err := s.Append(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []string{""}, names(t, s))
	})

	t.Run("DeleteOnlyNamed", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		for _, n := range []string{"rice", "kimchi", "tteok"} {
			_, err := s.Append(ctx, n)
			require.NoError(t, err)
		}
		require.NoError(t, s.Delete(ctx, "kimchi"))
		assert.Equal(t, []string{"rice", "tteok"}, names(t, s))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		s := open(t)
		err := s.Delete(context.Background(), "rice")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ConcurrentAppends", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Append(ctx, fmt.Sprintf("food-%d", i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()
		assert.Len(t, names(t, s), 8)
	})
}

func names(t *testing.T, s store.Store) []string {
	t.Helper()
	items, err := s.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
