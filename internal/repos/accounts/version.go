package accounts

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	versionEntropy   = ulid.Monotonic(rand.Reader, 0)
	versionEntropyMu sync.Mutex
)

// NewVersion returns a fresh, monotonically increasing version token.
func NewVersion() string {
	versionEntropyMu.Lock()
	defer versionEntropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), versionEntropy).String()
}
