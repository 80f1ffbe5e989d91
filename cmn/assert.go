package cmn

import "fmt"

// Assert panics if cond is false. Used at invariant boundaries that must
// never be crossed during correct operation (e.g. index/pool bookkeeping);
// never used to validate external input.
func Assert(cond bool) {
	if !cond {
		panic("assertion failed")
	}
}

func AssertMsg(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(fmt.Sprintf("assertion failed: unexpected error: %v", err))
	}
}
