package datastore

import (
	"testing"

	"go.uber.org/goleak"
)

// leakOptions is extended by build-tagged test files that start long-lived helpers.
var leakOptions []goleak.Option

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, leakOptions...)
}
