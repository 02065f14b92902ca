package generator

import (
	"crypto/rand"
	"strings"
	"sync/atomic"
)

// cpuWorker is a single CPU search loop. Each worker owns a private 32-byte
// scalar seeded from the CSPRNG and advances it by +1 per iteration; since
// each worker starts from an independent random coset, duplicate work
// across workers has negligible probability. A worker never reads another
// worker's scalar.
//
// The loop runs until stop is set (cooperative cancellation, polled once
// per iteration — the source this is generalized from instead tore down
// the whole process from inside a worker on match; see the coordinator for
// how the stop flag and counters are wired together).
func cpuWorker(matcher *Matcher, c *counters, stop *atomic.Bool, reportProgress bool, sink func(Result)) {
	var k [32]byte
	if _, err := rand.Read(k[:]); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken; there is nothing a worker can usefully do but stop.
		return
	}

	for {
		if stop.Load() {
			return
		}

		pub := Ed25519Derive(k)

		if matcher.Matches(pub) {
			address := encodeBase58Address(pub)
			if strings.HasPrefix(address, matcher.Prefix()) {
				if !c.tryCommit(stop) {
					return // limit already reached by another worker
				}
				sink(Result{PrivateKey: k, Address: address})
			}
			// A match that fails the textual prefix check is a
			// spurious hit: ranges compiled for shorter encoded
			// lengths (see CompileMatcher) hold keys with leading
			// zero bytes, whose addresses begin with extra '1's
			// instead of the prefix — fall through and keep searching.
		}

		if reportProgress {
			c.attempts.Add(1)
		}

		incrementScalar(&k)
	}
}
