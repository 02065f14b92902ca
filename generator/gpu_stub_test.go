//go:build !opencl

package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewGPUContext_FailsWithoutOpenCLTag checks the non-opencl build's
// fallback: requesting GPU support without the opencl build tag must
// fail with ErrGpuInitFailure rather than panicking or silently no-op'ing,
// so the coordinator can fall back to CPU-only and report GPUWarning.
func TestNewGPUContext_FailsWithoutOpenCLTag(t *testing.T) {
	m, err := CompileMatcher("a")
	assert.NoError(t, err)

	_, err = newGPUContext(m, GPUConfig{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrGpuInitFailure))
}

// TestCoordinator_GPURequestedFallsBackToCPU exercises the full path: a
// Coordinator configured with UseGPU still finds a match via its CPU
// workers, and records a non-nil GPUWarning once Run returns.
func TestCoordinator_GPURequestedFallsBackToCPU(t *testing.T) {
	var results []Result
	co, err := NewCoordinator(Config{
		Prefix:  "a",
		Threads: 4,
		Limit:   1,
		UseGPU:  true,
	}, func(r Result) {
		results = append(results, r)
	})
	assert.NoError(t, err)

	co.Run()

	assert.Len(t, results, 1)
	assert.Error(t, co.GPUWarning())
	assert.True(t, errors.Is(co.GPUWarning(), ErrGpuInitFailure))
}
