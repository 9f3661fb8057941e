package util

// ReverseG returns a reversed copy of arr.
func ReverseG[T any](arr []T) []T {
	out := make([]T, len(arr))
	for i, v := range arr {
		out[len(arr)-1-i] = v
	}
	return out
}
