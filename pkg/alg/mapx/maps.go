// Package mapx provides generic helpers for the nested count maps used by
// the ownership aggregate: deep copy, additive merge, sums, and sorted keys.
package mapx

import (
	"cmp"
	stdmaps "maps"
	"slices"
)

// Numeric is the constraint for types that support the += operator.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// CloneNested returns a deep copy of a two-level nested map.
// Outer and inner maps are independently allocated.
// Returns nil for a nil map. Nil inner maps are preserved as nil.
func CloneNested[K1, K2 comparable, V any](m map[K1]map[K2]V) map[K1]map[K2]V {
	if m == nil {
		return nil
	}

	clone := make(map[K1]map[K2]V, len(m))

	for k1, inner := range m {
		if inner == nil {
			clone[k1] = nil

			continue
		}

		cp := make(map[K2]V, len(inner))
		stdmaps.Copy(cp, inner)
		clone[k1] = cp
	}

	return clone
}

// MergeAdditive additively merges src into dst: dst[k] += src[k] for every key in src.
// Keys missing from dst start at zero. If dst is nil, this is a no-op.
func MergeAdditive[K comparable, V Numeric](dst, src map[K]V) {
	if dst == nil {
		return
	}

	for k, v := range src {
		dst[k] += v
	}
}

// Sum returns the sum of all values of m.
func Sum[K comparable, V Numeric](m map[K]V) V {
	var total V

	for _, v := range m {
		total += v
	}

	return total
}

// SortedKeys returns the keys of m in sorted order.
// Returns nil for a nil map.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	if m == nil {
		return nil
	}

	return slices.Sorted(stdmaps.Keys(m))
}

// SortedByValueDesc returns the keys of m ordered by descending value,
// ties broken by ascending key.
func SortedByValueDesc[K cmp.Ordered, V Numeric](m map[K]V) []K {
	keys := SortedKeys(m)

	slices.SortStableFunc(keys, func(a, b K) int {
		return cmp.Compare(m[b], m[a])
	})

	return keys
}
