package generator

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinator_FindsOneCharPrefix exercises spec's first end-to-end
// scenario: a single-character prefix with limit=1 should terminate
// quickly, emit exactly one result, and that result's address must start
// with the prefix.
func TestCoordinator_FindsOneCharPrefix(t *testing.T) {
	var mu sync.Mutex
	var results []Result

	co, err := NewCoordinator(Config{
		Prefix:  "a",
		Threads: 4,
		Limit:   1,
	}, func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		co.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("search did not terminate within 10s for a 1-character prefix")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.True(t, strings.HasPrefix(results[0].Address, "a"))

	// Round-trip law: re-deriving from the reported private key must
	// reproduce the reported address.
	pub := Ed25519Derive(results[0].PrivateKey)
	assert.Equal(t, results[0].Address, encodeBase58Address(pub))
}

// TestCoordinator_StopsExactlyAtLimit checks that once found_n reaches the
// configured limit, no further results are committed, even though workers
// may be mid-iteration when the flag is raised.
func TestCoordinator_StopsExactlyAtLimit(t *testing.T) {
	var mu sync.Mutex
	var results []Result

	const limit = 3
	co, err := NewCoordinator(Config{
		Prefix:  "a",
		Threads: 4,
		Limit:   limit,
	}, func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		co.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("search did not terminate within 15s")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, limit, len(results))
	assert.Equal(t, uint64(limit), co.Stats().Found)
}
