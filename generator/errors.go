package generator

import "errors"

// Error kinds for the runtime diagnostics a worker or the coordinator may
// report. InvalidPrefix and ArgumentError are fatal at startup; the rest
// are logged and the search continues.
var (
	// ErrGpuInitFailure indicates platform/device selection, context,
	// queue, program build, or buffer creation failed. Non-fatal: the
	// coordinator disables the GPU worker and continues on CPU alone.
	ErrGpuInitFailure = errors.New("svanity: gpu initialization failed")

	// ErrGpuComputeFailure indicates a kernel launch or buffer read
	// returned an error. Non-fatal: the iteration is skipped.
	ErrGpuComputeFailure = errors.New("svanity: gpu compute failed")

	// ErrSpuriousGpuMatch indicates the GPU reported a match whose
	// reconstructed key does not actually satisfy the Base58 prefix.
	// Non-fatal: logged and skipped.
	ErrSpuriousGpuMatch = errors.New("svanity: gpu returned non-matching solution")
)
