package hitlfu_test

import (
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	hitlfu "github.com/CsRic/Hit-Aware-LFU-Cache"
)

func TestBuilder(t *testing.T) {
	_, err := hitlfu.NewBuilder(-500).Build()
	require.ErrorIs(t, err, hitlfu.ErrInvalidCapacity)
	_, err = hitlfu.NewBuilder(0).Build()
	require.ErrorIs(t, err, hitlfu.ErrInvalidCapacity)
	_, err = hitlfu.New(0)
	require.ErrorIs(t, err, hitlfu.ErrInvalidCapacity)

	_, err = hitlfu.NewBuilder(10).Engine(hitlfu.EngineKind(7)).Build()
	require.Error(t, err)

	manager, err := hitlfu.NewBuilder(100).
		Engine(hitlfu.SortedSet).
		Logger(slog.Default()).
		RecordStats().
		Build()
	require.Nil(t, err)
	require.Equal(t, reflect.TypeOf(&hitlfu.Manager{}), reflect.TypeOf(manager))
	require.Equal(t, 100, manager.Capacity())
	require.Equal(t, 0, manager.Len())

	// sharded
	_, err = hitlfu.NewBuilder(100).Shards(0).BuildSharded()
	require.Error(t, err)
	_, err = hitlfu.NewBuilder(3).Shards(4).BuildSharded()
	require.ErrorIs(t, err, hitlfu.ErrInvalidCapacity)
	_, err = hitlfu.NewBuilder(-3).Shards(4).BuildSharded()
	require.ErrorIs(t, err, hitlfu.ErrInvalidCapacity)

	sharded, err := hitlfu.NewBuilder(100).Shards(8).BuildSharded()
	require.Nil(t, err)
	require.Equal(t, reflect.TypeOf(&hitlfu.ShardedManager{}), reflect.TypeOf(sharded))
	require.Equal(t, 100, sharded.Capacity())
	require.Equal(t, 8, sharded.Shards())

	// a single shard is the default
	sharded, err = hitlfu.NewBuilder(5).BuildSharded()
	require.Nil(t, err)
	require.Equal(t, 1, sharded.Shards())
}

func TestBuilder_Engines(t *testing.T) {
	for _, kind := range []hitlfu.EngineKind{hitlfu.BucketList, hitlfu.SortedSet} {
		manager, err := hitlfu.NewBuilder(4).Engine(kind).Build()
		require.Nil(t, err)
		plan, err := manager.ProcessBatch([]int64{0, 1, 2, 3, 3, 3, 3, 2, 2, 3, 2, 1, 1, 0})
		require.Nil(t, err)
		require.Equal(t, []int64{0, 1, 2, 3}, plan.AdmittedKeys, kind.String())
	}
}
