// Package assert holds precondition checks. A failed check is a caller defect
// and panics; it is never reported as an error.
package assert

import "fmt"

func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
