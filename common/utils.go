package common

// Clamp limits v to the closed range [lo, hi].
func Clamp[T ~int | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
