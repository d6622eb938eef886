package foreach

func Filter[T any](slice []T, f func(T) bool) []T {
	res := make([]T, 0, len(slice))
	for _, e := range slice {
		if f(e) {
			res = append(res, e)
		}
	}
	return res
}

func Map[T any, X any](slice []T, f func(T) X) []X {
	res := make([]X, 0, len(slice))
	for _, e := range slice {
		res = append(res, f(e))
	}
	return res
}

func Any[T any](slice []T, f func(T) bool) bool {
	for _, e := range slice {
		if f(e) {
			return true
		}
	}
	return false
}

func SumBy[T any, N int64 | float64 | int](slice []T, f func(T) N) N {
	var sum N
	for _, e := range slice {
		sum += f(e)
	}
	return sum
}

// GroupBy splits slice into groups sharing the same key.
// Keys are returned in the order of their first occurrence, elements keep their relative order.
func GroupBy[T any, K comparable](slice []T, key func(T) K) ([]K, map[K][]T) {
	keys := make([]K, 0)
	groups := make(map[K][]T)
	for _, e := range slice {
		k := key(e)
		group, found := groups[k]
		if !found {
			keys = append(keys, k)
		}
		groups[k] = append(group, e)
	}
	return keys, groups
}
