package generator

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// counters holds the two shared, monotonically non-decreasing atomics every
// worker touches: attempts (bumped by every worker) and found (bumped only
// on a confirmed match). Relaxed atomic add/load is sufficient — the
// counters are purely observational and never gate any other memory
// access.
type counters struct {
	attempts atomic.Uint64
	found    atomic.Uint64
	limit    uint64 // 0 = infinite
}

// tryCommit reserves one of the limit's match slots via compare-and-swap,
// so found_n never exceeds limit even if several workers confirm a match
// in the same instant. It returns false if the limit was already reached
// by another worker, in which case the caller must not emit its result.
// When the reservation is the last one, it raises the cooperative stop
// flag so no further record is ever committed after the limit-th.
func (c *counters) tryCommit(stop *atomic.Bool) bool {
	for {
		cur := c.found.Load()
		if c.limit != 0 && cur >= c.limit {
			return false
		}
		if c.found.CompareAndSwap(cur, cur+1) {
			if c.limit != 0 && cur+1 >= c.limit {
				stop.Store(true)
			}
			return true
		}
	}
}

// Stats is a point-in-time snapshot of the shared counters, safe to read
// from any goroutine while workers are running.
type Stats struct {
	Attempts uint64
	Found    uint64
}

// Config holds the tunables a Coordinator needs to run a search. It mirrors
// spec's CLI flag table one-to-one; the CLI layer (cmd/svanity) is
// responsible for turning parsed flags into a Config.
type Config struct {
	Prefix   string
	Threads  int // CPU worker count; <=0 defaults to NumCPU()-1, floor 1
	Limit    uint64
	UseGPU   bool
	GPU      GPUConfig
	Progress bool // whether to maintain the attempts counter / progress reporter
}

// GPUConfig holds the OpenCL tunables from spec's --gpu-* flags.
type GPUConfig struct {
	GlobalWorkSize int
	LocalWorkSize  int // 0 = let the driver/runtime choose
	Platform       int
	Device         int
}

// DefaultThreads returns the default CPU worker count: the number of
// online CPUs minus one, floored at 1.
func DefaultThreads() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Coordinator owns the Matcher, the shared counters, the GPU context (if
// any), and the pool of CPU/GPU workers. It is the only component that
// mutates shared state other than the atomic counters themselves.
type Coordinator struct {
	matcher *Matcher
	cfg     Config
	counts  counters
	stop    atomic.Bool
	sink    func(Result)
	diag    func(error)

	gpu    *gpuContext
	gpuErr error

	startedAt time.Time
}

// NewCoordinator compiles the prefix into a Matcher and prepares a
// Coordinator. It does not start any workers; call Run for that. Sink
// receives every confirmed Result; the caller is responsible for any
// synchronization sink needs beyond what the coordinator itself guarantees
// (the coordinator only ever calls sink from worker goroutines, so a sink
// that is not itself safe for concurrent use must lock internally).
func NewCoordinator(cfg Config, sink func(Result)) (*Coordinator, error) {
	matcher, err := CompileMatcher(cfg.Prefix)
	if err != nil {
		return nil, err
	}

	if cfg.Threads <= 0 {
		cfg.Threads = DefaultThreads()
	}

	co := &Coordinator{
		matcher: matcher,
		cfg:     cfg,
		sink:    sink,
		diag:    func(error) {},
	}
	co.counts.limit = cfg.Limit
	return co, nil
}

// SetDiagnostics installs a callback invoked for every non-fatal runtime
// error (GpuComputeFailure, SpuriousGpuMatch). The default is a no-op.
func (co *Coordinator) SetDiagnostics(fn func(error)) {
	if fn == nil {
		fn = func(error) {}
	}
	co.diag = fn
}

// Matcher returns the compiled matcher, useful for printing the search plan
// before Run is called.
func (co *Coordinator) Matcher() *Matcher { return co.matcher }

// Stats returns a snapshot of the shared counters.
func (co *Coordinator) Stats() Stats {
	return Stats{
		Attempts: co.counts.attempts.Load(),
		Found:    co.counts.found.Load(),
	}
}

// Elapsed returns the time since Run was called.
func (co *Coordinator) Elapsed() time.Duration {
	if co.startedAt.IsZero() {
		return 0
	}
	return time.Since(co.startedAt)
}

// GPUWarning returns the non-fatal error recorded if GPU initialization was
// requested but failed; nil if GPU was not requested or initialized fine.
func (co *Coordinator) GPUWarning() error { return co.gpuErr }

// Run spawns T CPU workers and, if requested and initialized successfully,
// one GPU worker, and blocks until the stop condition (the found limit) is
// reached or every worker exits. Start order matches spec: CPU workers
// first, then the GPU worker if GPU init succeeds.
func (co *Coordinator) Run() {
	co.startedAt = time.Now()

	var wg sync.WaitGroup

	for i := 0; i < co.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cpuWorker(co.matcher, &co.counts, &co.stop, co.cfg.Progress, co.sink)
		}()
	}

	if co.cfg.UseGPU {
		gpu, err := newGPUContext(co.matcher, co.cfg.GPU)
		if err != nil {
			co.gpuErr = err
		} else {
			co.gpu = gpu
		}
	}

	if co.gpu != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer co.gpu.release()
			runGPUWorker(co.gpu, co.matcher, &co.counts, &co.stop, co.sink, co.diag)
		}()
	}

	wg.Wait()
}

// Stop raises the cooperative stop flag, asking all workers to exit after
// their current iteration. Safe to call from any goroutine, any number of
// times.
func (co *Coordinator) Stop() { co.stop.Store(true) }
