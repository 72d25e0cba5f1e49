package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/registry"
)

func RunTests(t *testing.T, s registry.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s registry.Store){
		testHappyPath,
		testDenseIndexes,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s registry.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetByIndex(ctx, "factory1", 0)
		assert.Equal(t, registry.ErrEntryNotFound, err)

		count, err := s.GetCountByFactory(ctx, "factory1")
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		record := &registry.Record{
			Factory: "factory1",
			Pool:    "pool1",
		}
		require.NoError(t, s.Put(ctx, record))
		assert.EqualValues(t, 0, record.Index)
		assert.False(t, record.CreatedAt.IsZero())

		actual, err := s.GetByIndex(ctx, "factory1", 0)
		require.NoError(t, err)
		assert.Equal(t, "pool1", actual.Pool)

		assert.Equal(t, registry.ErrEntryAlreadyExists, s.Put(ctx, &registry.Record{
			Factory: "factory1",
			Pool:    "pool1",
		}))

		count, err = s.GetCountByFactory(ctx, "factory1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func testDenseIndexes(t *testing.T, s registry.Store) {
	t.Run("testDenseIndexes", func(t *testing.T) {
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			record := &registry.Record{
				Factory: "factory1",
				Pool:    fmt.Sprintf("pool%d", i),
			}
			require.NoError(t, s.Put(ctx, record))
			assert.EqualValues(t, i, record.Index)
		}

		other := &registry.Record{
			Factory: "factory2",
			Pool:    "otherpool",
		}
		require.NoError(t, s.Put(ctx, other))
		assert.EqualValues(t, 0, other.Index)

		for i := 0; i < 5; i++ {
			actual, err := s.GetByIndex(ctx, "factory1", uint64(i))
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("pool%d", i), actual.Pool)
		}

		_, err := s.GetByIndex(ctx, "factory1", 5)
		assert.Equal(t, registry.ErrEntryNotFound, err)

		count, err := s.GetCountByFactory(ctx, "factory1")
		require.NoError(t, err)
		assert.EqualValues(t, 5, count)
	})
}
