package utils

// FilterSlice maps every element through fn and keeps those for which fn
// reports true.
func FilterSlice[S any, T any](in []S, fn func(S) (T, bool)) []T {
	out := make([]T, 0, len(in))
	for _, s := range in {
		if t, ok := fn(s); ok {
			out = append(out, t)
		}
	}
	return out
}

// SliceToMap indexes a slice by key.
func SliceToMap[S any, K comparable](in []S, key func(S) K) map[K]S {
	out := make(map[K]S, len(in))
	for _, s := range in {
		out[key(s)] = s
	}
	return out
}
