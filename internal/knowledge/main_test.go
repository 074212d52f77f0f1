package knowledge

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in the
// knowledge package, including the container-backed integration tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Connection pool and container-runtime goroutines persist
		// across tests.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*http2clientConnReadLoop).run"),
	)
}
