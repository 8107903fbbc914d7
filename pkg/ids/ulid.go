package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// RequestID returns a lexicographically sortable ULID string for tagging
// requests and log lines.
func RequestID() string {
	return RequestIDAt(time.Now().UTC())
}

func RequestIDAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
