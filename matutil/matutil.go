// Package matutil provides small helpers over the integer matrices the
// map compiler produces. They are shared by the compiler stages and by
// tests that assert on map structure.
package matutil

// Clone creates a deep copy of a matrix.
func Clone(m [][]int) [][]int {
	if m == nil {
		return nil
	}
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether two matrices have identical shape and cells.
func Equal(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// MaxAbs returns the largest absolute cell value, 0 for an empty
// matrix.
func MaxAbs(m [][]int) int {
	max := 0
	for _, row := range m {
		for _, v := range row {
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
	}
	return max
}

// NonZero returns the count of nonzero cells.
func NonZero(m [][]int) int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Values returns the distinct nonzero cell values in row-major order
// of first appearance.
func Values(m [][]int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, row := range m {
		for _, v := range row {
			if v != 0 && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
