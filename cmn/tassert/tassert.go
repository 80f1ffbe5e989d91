// Package tassert provides small fatal-on-failure test assertions, used by
// the leaf packages that don't pull in the ginkgo/gomega suite.
package tassert

import "testing"

type failer interface {
	Fatalf(format string, args ...interface{})
}

func CheckFatal(t failer, err error) {
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Fatalf(t failer, cond bool, format string, args ...interface{}) {
	if !cond {
		t.Fatalf(format, args...)
	}
}

var _ failer = (*testing.T)(nil)
var _ failer = (*testing.B)(nil)
