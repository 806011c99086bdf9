package hashindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cwcgo.dev/cwcgo/internal/hashindex"
)

func TestGetSetDelete(t *testing.T) {
	h := hashindex.New[string]()
	_, ok := h.Get(1)
	require.False(t, ok)

	h.Set(1, "a")
	h.Set(2, "b")
	require.Equal(t, 2, h.Len())

	v, ok := h.Get(1)
	require.True(t, ok)
	require.Equal(t, "a", v)

	require.True(t, h.Delete(1))
	require.False(t, h.Delete(1))
	require.Equal(t, 1, h.Len())
}

func TestEachAndClear(t *testing.T) {
	h := hashindex.New[int]()
	h.Set(1, 10)
	h.Set(2, 20)

	sum := 0
	h.Each(func(key uint64, value int) { sum += value })
	require.Equal(t, 30, sum)

	h.Clear()
	require.Equal(t, 0, h.Len())
}
