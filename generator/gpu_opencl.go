//go:build opencl

package generator

/*
#cgo CFLAGS: -I${SRCDIR}/../deps/opencl-headers
#cgo windows LDFLAGS: -L${SRCDIR}/../deps/lib -lOpenCL
#cgo linux LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL

#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif

#include <stdlib.h>
*/
import "C"

import (
	"crypto/rand"
	"embed"
	"fmt"
	"strings"
	"sync/atomic"
	"unsafe"
)

//go:embed kernels/vanity.cl
var kernelSource embed.FS

const resultSentinel uint64 = 0xFFFFFFFFFFFFFFFF

// gpuContext is the handle bundle spec.md §3 calls "GPU Context": device,
// queue, compiled kernel, and the four device-resident buffers. Owned by
// the Coordinator, borrowed mutably by exactly one GPU worker.
type gpuContext struct {
	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue
	program  C.cl_program
	kernel   C.cl_kernel

	bufRoot      C.cl_mem // 32 bytes, written per launch
	bufMinRanges C.cl_mem // R*32 bytes, written once
	bufMaxRanges C.cl_mem // R*32 bytes, written once
	bufResult    C.cl_mem // 8 bytes, reset per launch

	rangeCount  uint32
	globalWork  int
	localWork   int // 0 = let the runtime choose
}

// newGPUContext selects a platform/device, builds the kernel, and uploads
// the range table once. Any failure here is ErrGpuInitFailure: the
// coordinator is expected to fall back to CPU-only with a warning.
func newGPUContext(m *Matcher, cfg GPUConfig) (*gpuContext, error) {
	g := &gpuContext{
		globalWork: cfg.GlobalWorkSize,
		localWork:  cfg.LocalWorkSize,
	}
	if g.globalWork <= 0 {
		g.globalWork = 1 << 20
	}

	if err := g.initPlatformAndDevice(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGpuInitFailure, err)
	}
	if err := g.buildProgram(); err != nil {
		g.releaseHandles()
		return nil, fmt.Errorf("%w: %v", ErrGpuInitFailure, err)
	}
	if err := g.createBuffers(m); err != nil {
		g.releaseHandles()
		return nil, fmt.Errorf("%w: %v", ErrGpuInitFailure, err)
	}

	return g, nil
}

func (g *gpuContext) initPlatformAndDevice(cfg GPUConfig) error {
	var numPlatforms C.cl_uint
	if C.clGetPlatformIDs(0, nil, &numPlatforms) != C.CL_SUCCESS || numPlatforms == 0 {
		return fmt.Errorf("no OpenCL platforms")
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)
	if cfg.Platform < 0 || cfg.Platform >= int(numPlatforms) {
		return fmt.Errorf("platform index %d out of range (have %d)", cfg.Platform, numPlatforms)
	}
	g.platform = platforms[cfg.Platform]

	var numDevices C.cl_uint
	if C.clGetDeviceIDs(g.platform, C.CL_DEVICE_TYPE_ALL, 0, nil, &numDevices) != C.CL_SUCCESS || numDevices == 0 {
		return fmt.Errorf("no OpenCL devices")
	}
	devices := make([]C.cl_device_id, numDevices)
	C.clGetDeviceIDs(g.platform, C.CL_DEVICE_TYPE_ALL, numDevices, &devices[0], nil)
	if cfg.Device < 0 || cfg.Device >= int(numDevices) {
		return fmt.Errorf("device index %d out of range (have %d)", cfg.Device, numDevices)
	}
	g.device = devices[cfg.Device]

	var ret C.cl_int
	g.context = C.clCreateContext(nil, 1, &g.device, nil, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("clCreateContext: %d", ret)
	}
	g.queue = C.clCreateCommandQueue(g.context, g.device, 0, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("clCreateCommandQueue: %d", ret)
	}
	return nil
}

func (g *gpuContext) buildProgram() error {
	src, err := kernelSource.ReadFile("kernels/vanity.cl")
	if err != nil {
		return fmt.Errorf("reading embedded kernel: %w", err)
	}

	cSrc := C.CString(string(src))
	defer C.free(unsafe.Pointer(cSrc))
	length := C.size_t(len(src))

	var ret C.cl_int
	g.program = C.clCreateProgramWithSource(g.context, 1, &cSrc, &length, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("clCreateProgramWithSource: %d", ret)
	}

	ret = C.clBuildProgram(g.program, 1, &g.device, nil, nil, nil)
	if ret != C.CL_SUCCESS {
		var logSize C.size_t
		C.clGetProgramBuildInfo(g.program, g.device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize)
		buildLog := make([]byte, logSize)
		if logSize > 0 {
			C.clGetProgramBuildInfo(g.program, g.device, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&buildLog[0]), nil)
		}
		return fmt.Errorf("clBuildProgram failed: %s", strings.TrimRight(string(buildLog), "\x00"))
	}

	kName := C.CString("svanity_search")
	defer C.free(unsafe.Pointer(kName))
	g.kernel = C.clCreateKernel(g.program, kName, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("clCreateKernel: %d", ret)
	}
	return nil
}

func (g *gpuContext) createBuffers(m *Matcher) error {
	ranges := m.Ranges()
	g.rangeCount = uint32(len(ranges))

	minBuf := make([]byte, len(ranges)*32)
	maxBuf := make([]byte, len(ranges)*32)
	for i, r := range ranges {
		copy(minBuf[i*32:], r.Min[:])
		copy(maxBuf[i*32:], r.Max[:])
	}

	var ret C.cl_int
	g.bufRoot = C.clCreateBuffer(g.context, C.CL_MEM_READ_ONLY, 32, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("bufRoot: %d", ret)
	}
	g.bufMinRanges = C.clCreateBuffer(g.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(minBuf)), unsafe.Pointer(&minBuf[0]), &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("bufMinRanges: %d", ret)
	}
	g.bufMaxRanges = C.clCreateBuffer(g.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(maxBuf)), unsafe.Pointer(&maxBuf[0]), &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("bufMaxRanges: %d", ret)
	}
	g.bufResult = C.clCreateBuffer(g.context, C.CL_MEM_READ_WRITE, 8, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("bufResult: %d", ret)
	}

	C.clSetKernelArg(g.kernel, 0, C.size_t(unsafe.Sizeof(g.bufRoot)), unsafe.Pointer(&g.bufRoot))
	C.clSetKernelArg(g.kernel, 1, C.size_t(unsafe.Sizeof(g.bufMinRanges)), unsafe.Pointer(&g.bufMinRanges))
	C.clSetKernelArg(g.kernel, 2, C.size_t(unsafe.Sizeof(g.bufMaxRanges)), unsafe.Pointer(&g.bufMaxRanges))
	rangeCountArg := C.cl_uint(g.rangeCount)
	C.clSetKernelArg(g.kernel, 3, C.size_t(unsafe.Sizeof(rangeCountArg)), unsafe.Pointer(&rangeCountArg))
	C.clSetKernelArg(g.kernel, 4, C.size_t(unsafe.Sizeof(g.bufResult)), unsafe.Pointer(&g.bufResult))

	return nil
}

// release runs the exact inverse of init, safe to call once the GPU worker
// has stopped using the context. It is release-safe under abrupt worker
// exit because the Coordinator defers it from the goroutine that owns the
// context, not from within the worker's hot loop.
func (g *gpuContext) release() {
	if g.bufRoot != nil {
		C.clReleaseMemObject(g.bufRoot)
	}
	if g.bufMinRanges != nil {
		C.clReleaseMemObject(g.bufMinRanges)
	}
	if g.bufMaxRanges != nil {
		C.clReleaseMemObject(g.bufMaxRanges)
	}
	if g.bufResult != nil {
		C.clReleaseMemObject(g.bufResult)
	}
	g.releaseHandles()
}

func (g *gpuContext) releaseHandles() {
	if g.kernel != nil {
		C.clReleaseKernel(g.kernel)
	}
	if g.program != nil {
		C.clReleaseProgram(g.program)
	}
	if g.queue != nil {
		C.clReleaseCommandQueue(g.queue)
	}
	if g.context != nil {
		C.clReleaseContext(g.context)
	}
}

// runGPUWorker implements the driver protocol from spec.md §4.5: draw a
// fresh root, reset result, launch, read back, confirm a match on the CPU,
// and bump attempts by the launch's global work size after every launch
// whose result was read back (an iteration skipped for a compute failure
// adds nothing).
func runGPUWorker(g *gpuContext, m *Matcher, c *counters, stop *atomic.Bool, sink func(Result), diag func(error)) {
	var root [32]byte
	resetValue := resultSentinel

	globalSize := C.size_t(g.globalWork)
	var localSizePtr *C.size_t
	if g.localWork > 0 {
		ls := C.size_t(g.localWork)
		localSizePtr = &ls
	}

	for {
		if stop.Load() {
			return
		}

		if _, err := rand.Read(root[:]); err != nil {
			return
		}

		ret := C.clEnqueueWriteBuffer(g.queue, g.bufRoot, C.CL_TRUE, 0, 32, unsafe.Pointer(&root[0]), 0, nil, nil)
		if ret != C.CL_SUCCESS {
			diag(fmt.Errorf("%w: write root buffer: %d", ErrGpuComputeFailure, ret))
			continue
		}
		ret = C.clEnqueueWriteBuffer(g.queue, g.bufResult, C.CL_TRUE, 0, 8, unsafe.Pointer(&resetValue), 0, nil, nil)
		if ret != C.CL_SUCCESS {
			diag(fmt.Errorf("%w: reset result buffer: %d", ErrGpuComputeFailure, ret))
			continue
		}

		ret = C.clEnqueueNDRangeKernel(g.queue, g.kernel, 1, nil, &globalSize, localSizePtr, 0, nil, nil)
		if ret != C.CL_SUCCESS {
			diag(fmt.Errorf("%w: kernel launch: %d", ErrGpuComputeFailure, ret))
			continue
		}

		var result uint64
		ret = C.clEnqueueReadBuffer(g.queue, g.bufResult, C.CL_TRUE, 0, 8, unsafe.Pointer(&result), 0, nil, nil)
		if ret != C.CL_SUCCESS {
			diag(fmt.Errorf("%w: read result buffer: %d", ErrGpuComputeFailure, ret))
			continue
		}

		if result != resultSentinel {
			candidate := reconstructCandidate(root, uint32(result))
			pub := Ed25519Derive(candidate)
			address := encodeBase58Address(pub)
			if m.Matches(pub) && strings.HasPrefix(address, m.Prefix()) {
				if c.tryCommit(stop) {
					sink(Result{PrivateKey: candidate, Address: address})
				}
			} else {
				diag(fmt.Errorf("%w: global id %d", ErrSpuriousGpuMatch, result))
			}
		}

		c.attempts.Add(uint64(g.globalWork))
	}
}

// reconstructCandidate rebuilds the 32-byte candidate scalar the kernel
// derived its public key from: root[0:29] with the 24-bit global id placed
// big-endian at offsets 29..31.
func reconstructCandidate(root [32]byte, gid uint32) [32]byte {
	candidate := root
	candidate[29] = byte(gid >> 16)
	candidate[30] = byte(gid >> 8)
	candidate[31] = byte(gid)
	return candidate
}
