package registry

import (
	"strconv"
	"strings"
)

// CompareVersions compares two version strings component by component.
// Dot-separated components are compared numerically when both parse as
// integers and lexically otherwise. A shorter version with equal leading
// components is older ("1.2" < "1.2.1"). Returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	av := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bv := strings.Split(strings.TrimPrefix(b, "v"), ".")

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}

	for i := 0; i < n; i++ {
		var ac, bc string
		if i < len(av) {
			ac = av[i]
		}
		if i < len(bv) {
			bc = bv[i]
		}
		if ac == bc {
			continue
		}

		ai, aerr := strconv.Atoi(ac)
		bi, berr := strconv.Atoi(bc)
		switch {
		case aerr == nil && berr == nil:
			if ai < bi {
				return -1
			}
			if ai > bi {
				return 1
			}
		case aerr == nil:
			// Numeric beats non-numeric ("1.2.0" > "1.2.rc1").
			return 1
		case berr == nil:
			return -1
		default:
			if ac < bc {
				return -1
			}
			return 1
		}
	}
	return 0
}
