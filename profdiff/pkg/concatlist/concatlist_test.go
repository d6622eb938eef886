package concatlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendPrepend(t *testing.T) {
	l := New[int]()
	require.True(t, l.IsEmpty())

	l.Append(2)
	l.Append(3)
	l.Prepend(1)
	l.Prepend(0)

	require.Equal(t, 4, l.Len())
	require.Equal(t, []int{0, 1, 2, 3}, l.Slice())
}

func TestPrependToEmpty(t *testing.T) {
	var l List[string]
	l.Prepend("a")
	l.Append("b")
	require.Equal(t, []string{"a", "b"}, l.Slice())
}

func TestTransferFrom(t *testing.T) {
	for _, test := range []struct {
		name     string
		dst      []int
		src      []int
		expected []int
	}{
		{name: "both_non_empty", dst: []int{1, 2}, src: []int{3, 4}, expected: []int{1, 2, 3, 4}},
		{name: "empty_destination", dst: nil, src: []int{3, 4}, expected: []int{3, 4}},
		{name: "empty_source", dst: []int{1}, src: nil, expected: []int{1}},
		{name: "both_empty", dst: nil, src: nil, expected: []int{}},
	} {
		t.Run(test.name, func(t *testing.T) {
			dst := New(test.dst...)
			src := New(test.src...)

			dst.TransferFrom(src)

			require.Equal(t, test.expected, dst.Slice())
			require.Equal(t, len(test.expected), dst.Len())
			require.True(t, src.IsEmpty())
			require.Empty(t, src.Slice())
		})
	}
}

func TestTransferKeepsAppending(t *testing.T) {
	dst := New(1)
	src := New(2)
	dst.TransferFrom(src)
	dst.Append(3)
	src.Append(10)

	require.Equal(t, []int{1, 2, 3}, dst.Slice())
	require.Equal(t, []int{10}, src.Slice())
}

func TestTransferSelf(t *testing.T) {
	l := New(1, 2)
	l.TransferFrom(l)
	require.Equal(t, []int{1, 2}, l.Slice())
}

func TestForEachStops(t *testing.T) {
	l := New(1, 2, 3, 4)
	seen := []int{}
	l.ForEach(func(v int) bool {
		seen = append(seen, v)
		return v < 2
	})
	require.Equal(t, []int{1, 2}, seen)
}
