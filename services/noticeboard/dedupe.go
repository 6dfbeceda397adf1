package noticeboard

// Dedupe removes records whose key was already seen, keeping the
// first occurrence in its original position. Every extractor routes
// its identity key through here instead of carrying its own seen-set.
func Dedupe[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
