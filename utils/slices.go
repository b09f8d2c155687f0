package utils

// Alias1D returns true if x and y share the same base array.
// Taken from http://golang.org/src/pkg/math/big/nat.go#L340 .
func Alias1D[V any](x, y []V) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}

// ReverseSlice returns a new slice holding the elements of s in reverse order.
func ReverseSlice[V any](s []V) []V {
	r := make([]V, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}

// ReverseSliceInPlace reverses the order of the elements of s.
func ReverseSliceInPlace[V any](s []V) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ZeroSlice sets every element of s to its zero value.
func ZeroSlice[V any](s []V) {
	var zero V
	for i := range s {
		s[i] = zero
	}
}

// CloneSlice returns a copy of s with the same length.
func CloneSlice[V any](s []V) []V {
	r := make([]V, len(s))
	copy(r, s)
	return r
}
