package foreach

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	ints := make([]int, 0)
	for i := range 10 {
		ints = append(ints, i)
	}
	evenInts := Filter(ints, func(i int) bool {
		return i%2 == 0
	})
	require.Equal(t, []int{0, 2, 4, 6, 8}, evenInts)
}

func TestMap(t *testing.T) {
	ints := make([]int, 0)
	for i := range 5 {
		ints = append(ints, i)
	}
	mappedInts := Map(ints, func(i int) string {
		return fmt.Sprint(i)
	})
	require.Equal(t, []string{"0", "1", "2", "3", "4"}, mappedInts)
}

func TestAny(t *testing.T) {
	require.True(t, Any([]int{1, 2, 3}, func(i int) bool { return i == 2 }))
	require.False(t, Any([]int{1, 3}, func(i int) bool { return i == 2 }))
	require.False(t, Any(nil, func(i int) bool { return true }))
}

func TestSumBy(t *testing.T) {
	type unit struct {
		period int64
	}
	units := []unit{{5}, {35}, {60}}
	require.Equal(t, int64(100), SumBy(units, func(u unit) int64 { return u.period }))
}

func TestGroupBy(t *testing.T) {
	words := []string{"bar", "foo", "baz", "fizz", "buzz"}
	keys, groups := GroupBy(words, func(s string) byte {
		return s[0]
	})
	require.Equal(t, []byte{'b', 'f'}, keys)
	require.Equal(t, map[byte][]string{
		'b': {"bar", "baz", "buzz"},
		'f': {"foo", "fizz"},
	}, groups)
}
