//go:build !opencl

package generator

import (
	"fmt"
	"sync/atomic"
)

// gpuContext is the non-OpenCL build's empty stand-in. newGPUContext always
// fails on this build, so no field is ever populated.
type gpuContext struct{}

// newGPUContext always fails on builds without the opencl tag: the module
// was built without OpenCL support compiled in. The coordinator treats this
// exactly like any other ErrGpuInitFailure and falls back to CPU-only.
func newGPUContext(_ *Matcher, _ GPUConfig) (*gpuContext, error) {
	return nil, fmt.Errorf("%w: built without OpenCL support (rebuild with -tags opencl)", ErrGpuInitFailure)
}

func (g *gpuContext) release() {}

func runGPUWorker(_ *gpuContext, _ *Matcher, _ *counters, _ *atomic.Bool, _ func(Result), _ func(error)) {
}
