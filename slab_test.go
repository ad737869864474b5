package taskslab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlab_InsertGetRemove(t *testing.T) {
	s := NewSlab[string]()
	k := s.Insert("hello")
	require.Equal(t, 1, s.Len())
	v, ok := s.Get(k)
	require.True(t, ok)
	require.Equal(t, "hello", v)

	s.Remove(k)
	require.Equal(t, 0, s.Len())
	_, ok = s.Get(k)
	require.False(t, ok)
}

func TestSlab_LowestKeyReuse(t *testing.T) {
	s := NewSlab[int]()
	k0 := s.Insert(0)
	k1 := s.Insert(1)
	_ = s.Insert(2)
	s.Remove(k0)
	s.Remove(k1)

	reused := s.Insert(10)
	require.Equal(t, k0, reused, "lowest freed key should be reused first")
}

func TestSlab_StableAddresses(t *testing.T) {
	s := NewSlab[[2]int]()
	k := s.Insert([2]int{1, 2})
	p1, ok := s.GetPinned(k)
	require.True(t, ok)

	for i := 0; i < 200; i++ {
		s.Insert([2]int{i, i})
	}

	p2, ok := s.GetPinned(k)
	require.True(t, ok)
	require.Same(t, p1, p2)
	require.Equal(t, [2]int{1, 2}, *p2)
}

func TestSlab_ChunkBoundary(t *testing.T) {
	s := NewSlab[int]()
	var keys []uint64
	for i := 0; i < 65; i++ {
		keys = append(keys, s.Insert(i))
	}
	require.Equal(t, uint64(64), keys[64])
	require.Equal(t, 65, s.Len())
}

func TestSlab_RemoveUnpin(t *testing.T) {
	s := NewSlab[string]()
	k := s.Insert("x")
	v, ok := s.RemoveUnpin(k)
	require.True(t, ok)
	require.Equal(t, "x", v)
	require.Equal(t, 0, s.Len())
	_, ok = s.RemoveUnpin(k)
	require.False(t, ok)
}

func TestSlab_AbsentKeyNoPanic(t *testing.T) {
	s := NewSlab[int]()
	_, ok := s.Get(999)
	require.False(t, ok)
	_, ok = s.GetPinned(999)
	require.False(t, ok)
	s.Remove(999) // must not panic
}
