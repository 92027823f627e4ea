package probemap

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainMap_Basic(t *testing.T) {
	cm := NewChainMap[string, int](16)

	_, replaced := cm.Set("foo", 42)
	require.False(t, replaced)

	v, ok := cm.Get("foo")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	prev, replaced := cm.Set("foo", 100)
	require.True(t, replaced)
	assert.Equal(t, 42, prev)
	assert.Equal(t, 1, cm.Len())

	_, ok = cm.Get("bar")
	assert.False(t, ok)

	v, deleted := cm.Delete("foo")
	assert.True(t, deleted)
	assert.Equal(t, 100, v)
	assert.Equal(t, 0, cm.Len())

	_, deleted = cm.Delete("foo")
	assert.False(t, deleted)
}

func TestChainMap_CollisionChain(t *testing.T) {
	collisionHash := func(k int) uint64 {
		return 0 // Every key chains into bucket 0.
	}

	cm := NewChainMap(16, WithChainHashFunc[int, string](collisionHash))

	cm.Set(1, "a")
	cm.Set(2, "b")
	cm.Set(3, "c")
	require.Equal(t, 3, cm.Len())

	// Unlink the middle node; neighbors must stay reachable.
	v, ok := cm.Delete(2)
	require.True(t, ok)
	require.Equal(t, "b", v)

	for k, want := range map[int]string{1: "a", 3: "c"} {
		v, ok := cm.Get(k)
		require.Truef(t, ok, "key %d lost after unlinking a chain neighbor", k)
		require.Equal(t, want, v)
	}

	// Head and tail removals too.
	_, ok = cm.Delete(3)
	require.True(t, ok)
	_, ok = cm.Delete(1)
	require.True(t, ok)
	require.Equal(t, 0, cm.Len())
}

func TestChainMap_Grow(t *testing.T) {
	cm := NewChainMap[int, int](8)

	for i := range 100 {
		cm.Set(i, i*3)
		require.Equal(t, 1, bits.OnesCount(uint(cm.Capacity())))
	}

	require.Equal(t, 100, cm.Len())
	require.Greater(t, cm.Capacity(), 8)

	for i := range 100 {
		v, ok := cm.Get(i)
		require.Truef(t, ok, "key %d lost across grow", i)
		require.Equal(t, i*3, v)
	}
}

func TestChainMap_All(t *testing.T) {
	cm := NewChainMap[string, int](16)

	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		cm.Set(k, v)
	}

	got := map[string]int{}
	for k, v := range cm.All() {
		got[k] = v
	}

	require.Equal(t, want, got)
}
