package testsupport

import (
	"testing"

	"github.com/goliatone/go-nodevis/pkg/graph"
)

// ReadFixture decodes a YAML graph fixture, failing the test on error. The
// fixture is not loaded so callers can attach handlers first.
func ReadFixture(tb testing.TB, path string) graph.Fixture {
	tb.Helper()
	fx, err := graph.ReadFixtureFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return fx
}
