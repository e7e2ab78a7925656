package common

// SetDifferences computes the symmetric difference of two sorted slices in a
// single merge pass. Elements present only in a are appended to onlyA,
// elements present only in b to onlyB. Two elements are considered equal when
// neither is less than the other. Both inputs must be sorted by the same less
// function.
func SetDifferences[T any](a, b []T, less func(x, y T) bool) (onlyA, onlyB []T) {
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		switch {
		case less(a[i], b[j]):
			onlyA = append(onlyA, a[i])
			i++
		case less(b[j], a[i]):
			onlyB = append(onlyB, b[j])
			j++
		default:
			i++
			j++
		}
	}

	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)

	return onlyA, onlyB
}
