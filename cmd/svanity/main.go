// Command svanity searches for an Ed25519 keypair whose Base58-encoded
// public key begins with a user-supplied prefix — a vanity address for the
// Solana blockchain.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/br0x/svanity/generator"
)

const version = "0.1.0"

type cliFlags struct {
	threads       int
	gpu           bool
	limit         uint64
	gpuThreads    int
	gpuLocalWork  int
	gpuGlobalWork int
	gpuPlatform   int
	gpuDevice     int
	noProgress    bool
	simpleOutput  bool
	showHelp      bool
	showVersion   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags, prefix, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "svanity: "+err.Error())
		return 1
	}
	if flags.showHelp {
		printUsage(stderr)
		return 0
	}
	if flags.showVersion {
		fmt.Fprintln(stderr, "svanity version "+version)
		return 0
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).With().Timestamp().Logger()

	cfg := generator.Config{
		Prefix:   prefix,
		Threads:  flags.threads,
		Limit:    flags.limit,
		UseGPU:   flags.gpu,
		Progress: !flags.noProgress,
		GPU: generator.GPUConfig{
			GlobalWorkSize: resolveGlobalWorkSize(flags),
			LocalWorkSize:  flags.gpuLocalWork,
			Platform:       flags.gpuPlatform,
			Device:         flags.gpuDevice,
		},
	}

	var outMu sync.Mutex
	sink := func(res generator.Result) {
		outMu.Lock()
		defer outMu.Unlock()
		if flags.simpleOutput {
			fmt.Fprintf(stdout, "%s %s\n", strings.ToUpper(hex.EncodeToString(res.PrivateKey[:])), res.Address)
		} else {
			fmt.Fprintf(stderr, "\n")
			fmt.Fprintf(stderr, "Found matching account!\n")
			fmt.Fprintf(stderr, "  Address:     %s\n", res.Address)
			fmt.Fprintf(stderr, "  Private key: %s\n", strings.ToUpper(hex.EncodeToString(res.PrivateKey[:])))
		}
	}

	co, err := generator.NewCoordinator(cfg, sink)
	if err != nil {
		logger.Error().Err(err).Msg("invalid prefix")
		return 1
	}
	co.SetDiagnostics(func(e error) {
		logger.Warn().Err(e).Msg("runtime diagnostic")
	})

	if !flags.simpleOutput {
		printSearchPlan(stderr, co)
	}

	var stop atomic.Bool
	if !flags.noProgress {
		go generator.RunProgressReporter(stderr, co, &stop)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		co.Stop()
	}()

	co.Run()
	stop.Store(true)

	if co.GPUWarning() != nil {
		logger.Warn().Err(co.GPUWarning()).Msg("gpu unavailable, continuing on CPU")
	}

	return 0
}

func resolveGlobalWorkSize(f cliFlags) int {
	if f.gpuGlobalWork > 0 {
		return f.gpuGlobalWork
	}
	if f.gpuThreads > 0 {
		return f.gpuThreads
	}
	return 1 << 20 // default gpu-threads, 1,048,576
}

func parseFlags(args []string, stderr *os.File) (cliFlags, string, error) {
	fs := pflag.NewFlagSet("svanity", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.IntVarP(&f.threads, "threads", "t", generator.DefaultThreads(), "CPU worker count")
	fs.BoolVarP(&f.gpu, "gpu", "g", false, "enable the GPU worker")
	fs.Uint64VarP(&f.limit, "limit", "l", 1, "stop after N matches; 0 = infinite")
	fs.IntVar(&f.gpuThreads, "gpu-threads", 1<<20, "default GPU global work size when --gpu-global-work-size is absent")
	fs.IntVar(&f.gpuLocalWork, "gpu-local-work-size", 0, "kernel local work size (0 = auto)")
	fs.IntVar(&f.gpuGlobalWork, "gpu-global-work-size", 0, "kernel global work size (defaults to --gpu-threads)")
	fs.IntVar(&f.gpuPlatform, "gpu-platform", 0, "OpenCL platform index")
	fs.IntVar(&f.gpuDevice, "gpu-device", 0, "OpenCL device index")
	fs.BoolVar(&f.noProgress, "no-progress", false, "suppress the progress line")
	fs.BoolVar(&f.simpleOutput, "simple-output", false, "emit only '<HEX_KEY> <ADDRESS>' per match")
	fs.BoolVarP(&f.showHelp, "help", "h", false, "show this help message")
	fs.BoolVar(&f.showVersion, "version", false, "show version and exit")

	if err := fs.Parse(args); err != nil {
		return f, "", err
	}

	if f.showHelp || f.showVersion {
		return f, "", nil
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return f, "", fmt.Errorf("expected exactly one PREFIX argument, got %d", len(rest))
	}
	if f.threads <= 0 {
		f.threads = generator.DefaultThreads()
	}

	return f, rest[0], nil
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "svanity [options] PREFIX")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Search for an Ed25519 keypair whose Base58 public key starts with PREFIX.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -t, --threads N            CPU worker count (default: cores-1, min 1)")
	fmt.Fprintln(w, "  -g, --gpu                  enable the GPU worker")
	fmt.Fprintln(w, "  -l, --limit N              stop after N matches; 0 = infinite (default 1)")
	fmt.Fprintln(w, "      --gpu-threads N        default GPU global work size (default 1048576)")
	fmt.Fprintln(w, "      --gpu-local-work-size N  kernel local size")
	fmt.Fprintln(w, "      --gpu-global-work-size N kernel global size")
	fmt.Fprintln(w, "      --gpu-platform I       OpenCL platform index")
	fmt.Fprintln(w, "      --gpu-device I         OpenCL device index")
	fmt.Fprintln(w, "      --no-progress          suppress the progress line")
	fmt.Fprintln(w, "      --simple-output        emit only '<HEX_KEY> <ADDRESS>' per match")
	fmt.Fprintln(w, "  -h, --help                 show this help message")
	fmt.Fprintln(w, "      --version              show version and exit")
}

func printSearchPlan(w *os.File, co *generator.Coordinator) {
	m := co.Matcher()
	estimates := generator.EstimateDifficulty(m)
	ranges := m.Ranges()

	fmt.Fprintf(w, "Searching for prefix %q across %d range(s)\n", m.Prefix(), len(ranges))
	fmt.Fprintf(w, "Estimated attempts: p50=%d p90=%d p99=%d\n", estimates.P50, estimates.P90, estimates.P99)
	for _, r := range ranges {
		fmt.Fprintf(w, "  range [%s .. %s]\n", base58Address(r.Min), base58Address(r.Max))
	}
}

func base58Address(b [32]byte) string {
	return generator.EncodeBase58ForDisplay(b)
}
